package config

import (
	"time"
)

const (
	defaultMaxAlternatives   = 3
	defaultMinSpacingMinutes = 10
	defaultNudgeQuota        = 2
	defaultRewardPoints      = 10
)

type AllocationConfig struct {
	MaxAlternatives int
	MinSpacing      time.Duration
	NudgeQuota      int
	RewardPoints    int
}

func LoadAllocationConfig() *AllocationConfig {
	return &AllocationConfig{
		MaxAlternatives: getEnvInt("MAX_ALTERNATIVES", defaultMaxAlternatives),
		MinSpacing:      time.Duration(getEnvInt("MIN_SPACING_MINUTES", defaultMinSpacingMinutes)) * time.Minute,
		NudgeQuota:      getEnvInt("DEFAULT_NUDGE_QUOTA", defaultNudgeQuota),
		RewardPoints:    getEnvInt("NUDGE_REWARD_POINTS", defaultRewardPoints),
	}
}
