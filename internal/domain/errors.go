package domain

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrRecommendationMiss     = errors.New("recommendations not cached")
	ErrGenerationInProgress   = errors.New("generation already in progress")
	ErrNoSlots                = errors.New("no slots for date")
)
