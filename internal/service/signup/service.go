package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/generation"
)

const DefaultNudgeQuota = 2

var ErrInvalidSignup = errors.New("invalid signup")

type Generator interface {
	Generate(ctx context.Context, date time.Time) (*generation.Summary, error)
}

type Request struct {
	HomeZone     string
	WorkZone     string
	FlexMinusMin int
	FlexPlusMin  int
	EmployerName string
}

func (r Request) Validate() error {
	var errs []error
	if strings.TrimSpace(r.HomeZone) == "" {
		errs = append(errs, errors.New("home_zone is required"))
	}
	if strings.TrimSpace(r.WorkZone) == "" {
		errs = append(errs, errors.New("work_zone is required"))
	}
	if r.FlexMinusMin < 0 || r.FlexPlusMin < 0 {
		errs = append(errs, errors.New("flex minutes must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSignup, errors.Join(errs...))
	}
	return nil
}

type Service struct {
	repo       domain.Repository
	generator  Generator
	quota      int
	regenerate bool
	now        func() time.Time
}

func NewService(repo domain.Repository, generator Generator, quota int, regenerate bool) *Service {
	if quota < 0 {
		quota = DefaultNudgeQuota
	}
	return &Service{
		repo:       repo,
		generator:  generator,
		quota:      quota,
		regenerate: regenerate,
		now:        time.Now,
	}
}

// Signup registers a user and, when enabled, regenerates tomorrow for the
// whole population. A failed regeneration does not fail the signup.
func (s *Service) Signup(ctx context.Context, req Request) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, domain.NewUser{
		HomeZone:     strings.TrimSpace(req.HomeZone),
		WorkZone:     strings.TrimSpace(req.WorkZone),
		FlexMinusMin: req.FlexMinusMin,
		FlexPlusMin:  req.FlexPlusMin,
		EmployerName: strings.TrimSpace(req.EmployerName),
		NudgeQuota:   s.quota,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("home_zone", user.HomeZone),
		slog.String("work_zone", user.WorkZone),
	)

	if s.regenerate && s.generator != nil {
		tomorrow := domain.DateOf(s.now()).AddDate(0, 0, 1)
		if _, err := s.generator.Generate(ctx, tomorrow); err != nil {
			level := slog.LevelWarn
			if errors.Is(err, domain.ErrGenerationInProgress) {
				level = slog.LevelInfo
			}
			slog.Log(ctx, level, "regeneration after signup skipped",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}
