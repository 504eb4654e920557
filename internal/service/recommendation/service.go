package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

type AcceptResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// Service serves persisted recommendations through the cache.
type Service struct {
	repo  domain.Repository
	cache domain.RecommendationCache
}

func NewService(repo domain.Repository, cache domain.RecommendationCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// List returns the user's recommendations for date ordered by rank, earlier
// slots first on ties. An unknown user is domain.ErrUserNotFound.
func (s *Service) List(ctx context.Context, userID int64, date time.Time) ([]domain.Recommendation, error) {
	day := domain.DateOf(date)

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		recs, err := s.cache.GetRecommendations(ctx, userID, day)
		switch {
		case err == nil:
			slog.DebugContext(ctx, "recommendations served from cache",
				slog.Int64("user_id", userID),
				slog.String("date", domain.DateKey(day)),
			)
			return recs, nil
		case errors.Is(err, domain.ErrRecommendationMiss):
		default:
			slog.WarnContext(ctx, "failed to read recommendation cache",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	recs, err := s.repo.ListRecommendations(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetRecommendations(ctx, userID, day, recs); err != nil {
			slog.WarnContext(ctx, "failed to populate recommendation cache",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return recs, nil
}

// Accept marks the user's recommendation at slotStart as chosen. A missing
// recommendation is reported in the result, not as an error.
func (s *Service) Accept(ctx context.Context, userID int64, date, slotStart time.Time) (*AcceptResult, error) {
	day := domain.DateOf(date)

	err := s.repo.AcceptRecommendation(ctx, userID, day, slotStart)
	if errors.Is(err, domain.ErrRecommendationNotFound) {
		return &AcceptResult{Accepted: false, Reason: "Recommendation not found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept recommendation: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDate(ctx, day); err != nil {
			slog.WarnContext(ctx, "failed to invalidate recommendation cache",
				slog.String("date", domain.DateKey(day)),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.InfoContext(ctx, "recommendation accepted",
		slog.Int64("user_id", userID),
		slog.String("date", domain.DateKey(day)),
		slog.String("slot", domain.SlotKey(slotStart)),
	)

	return &AcceptResult{Accepted: true}, nil
}
