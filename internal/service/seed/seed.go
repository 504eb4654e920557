package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

// DemoUsers is a commuter population sharing one work zone.
func DemoUsers(quota int) []domain.NewUser {
	type demo struct {
		home      string
		flexMinus int
		flexPlus  int
	}

	demos := []demo{
		{"Sintra-Noroeste", 10, 20},
		{"Sintra-Sul", 15, 15},
		{"Queluz-Massamá", 0, 30},
		{"Amadora-Norte", 5, 10},
		{"Sintra-Nascente", 10, 10},
		{"Mem Martins", 0, 20},
		{"Rio de Mouro", 5, 15},
		{"Cacém", 20, 10},
		{"Belas", 10, 10},
		{"Algueirão", 15, 15},
	}

	users := make([]domain.NewUser, 0, len(demos))
	for _, d := range demos {
		users = append(users, domain.NewUser{
			HomeZone:     d.home,
			WorkZone:     "Lisboa-Centro",
			FlexMinusMin: d.flexMinus,
			FlexPlusMin:  d.flexPlus,
			NudgeQuota:   quota,
		})
	}
	return users
}

// Users inserts the demo users unless the users table already has rows, and
// returns how many were created.
func Users(ctx context.Context, repo domain.Repository, quota int) (int, error) {
	count, err := repo.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "users already present, skipping seed", slog.Int64("count", count))
		return 0, nil
	}

	created := 0
	for _, u := range DemoUsers(quota) {
		if _, err := repo.CreateUser(ctx, u); err != nil {
			return created, fmt.Errorf("failed to seed user %q: %w", u.HomeZone, err)
		}
		created++
	}

	slog.InfoContext(ctx, "demo users seeded", slog.Int("count", created))
	return created, nil
}
