package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=domain

type RecommendationCache interface {
	GetRecommendations(ctx context.Context, userID int64, date time.Time) ([]Recommendation, error)
	SetRecommendations(ctx context.Context, userID int64, date time.Time, recs []Recommendation) error
	InvalidateDate(ctx context.Context, date time.Time) error
}

// GenerationLock serializes generation runs across processes.
type GenerationLock interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}
