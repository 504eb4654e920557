package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=domain

type Repository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	CreateUser(ctx context.Context, user NewUser) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	ListSlots(ctx context.Context, date time.Time) ([]Slot, error)
	EnsureSlots(ctx context.Context, date time.Time, slots []Slot) (bool, error)
	ListRecommendations(ctx context.Context, userID int64, date time.Time) ([]Recommendation, error)
	AcceptRecommendation(ctx context.Context, userID int64, date time.Time, slotStart time.Time) error
	CommitGeneration(ctx context.Context, commit *GenerationCommit) error
}
