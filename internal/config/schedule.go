package config

import (
	"fmt"
	"os"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/service/window"
)

const (
	binMinutesEnv     = "BIN_MINUTES"
	morningStartEnv   = "SCHEDULE_MORNING_START"
	morningEndEnv     = "SCHEDULE_MORNING_END"
	afternoonStartEnv = "SCHEDULE_AFTERNOON_START"
	afternoonEndEnv   = "SCHEDULE_AFTERNOON_END"
	timezoneEnv       = "SCHEDULE_TIMEZONE"
)

type ScheduleConfig struct {
	BinWidth  time.Duration
	Morning   window.Bounds
	Afternoon window.Bounds
	Location  *time.Location
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	cfg := &ScheduleConfig{
		BinWidth:  time.Duration(getEnvInt(binMinutesEnv, int(window.DefaultBinWidth/time.Minute))) * time.Minute,
		Morning:   window.DefaultMorning(),
		Afternoon: window.DefaultAfternoon(),
		Location:  time.Local,
	}

	if start, end := os.Getenv(morningStartEnv), os.Getenv(morningEndEnv); start != "" || end != "" {
		b, err := window.ParseBounds(orDefault(start, "07:30"), orDefault(end, "10:30"))
		if err != nil {
			return nil, fmt.Errorf("%w: morning %v", ErrInvalidSchedule, err)
		}
		cfg.Morning = b
	}

	if start, end := os.Getenv(afternoonStartEnv), os.Getenv(afternoonEndEnv); start != "" || end != "" {
		b, err := window.ParseBounds(orDefault(start, "16:00"), orDefault(end, "20:00"))
		if err != nil {
			return nil, fmt.Errorf("%w: afternoon %v", ErrInvalidSchedule, err)
		}
		cfg.Afternoon = b
	}

	if tz := os.Getenv(timezoneEnv); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSchedule, tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// Classifier builds the window classifier for the configured bounds.
func (c *ScheduleConfig) Classifier() (*window.Classifier, error) {
	classifier, err := window.NewClassifier(c.Morning, c.Afternoon, c.BinWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	return classifier, nil
}

func orDefault(v, defaultValue string) string {
	if v == "" {
		return defaultValue
	}
	return v
}
