package config

import (
	"time"
)

const (
	defaultGenerationLockTTL = 5 * time.Minute
	defaultRecommendationTTL = 24 * time.Hour
)

type GenerationConfig struct {
	LockTTL  time.Duration
	CacheTTL time.Duration
}

func LoadGenerationConfig() *GenerationConfig {
	return &GenerationConfig{
		LockTTL:  getEnvSeconds("GENERATION_LOCK_TTL_SECONDS", defaultGenerationLockTTL),
		CacheTTL: getEnvSeconds("RECOMMENDATION_CACHE_TTL_SECONDS", defaultRecommendationTTL),
	}
}
