package cache

import "errors"

var (
	ErrRedisConnection           = errors.New("redis connection error")
	ErrInvalidRecommendationData = errors.New("invalid recommendation data")
)
