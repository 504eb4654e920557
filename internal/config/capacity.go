package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-commute-slots/internal/service/capacity"
)

const capacityConfigFileEnv = "CAPACITY_CONFIG_FILE"

type CapacityConfig struct {
	DefaultCapacity int             `yaml:"default_capacity" json:"default_capacity"`
	Rules           []capacity.Rule `yaml:"rules" json:"rules"`
}

// LoadCapacityConfig reads capacity rules from path. JSON files are read
// through the same YAML decoder. An empty path or a missing file yields the
// fallback rules; a file that exists but cannot be decoded is an error.
func LoadCapacityConfig(path string) (*CapacityConfig, error) {
	fallback := &CapacityConfig{
		DefaultCapacity: capacity.DefaultCapacity,
		Rules:           capacity.FallbackRules(),
	}

	if path == "" {
		return fallback, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("capacity config file not found, using fallback rules",
				slog.String("path", path),
			)
			return fallback, nil
		}
		return nil, fmt.Errorf("read capacity config %s: %w", path, err)
	}

	var cfg CapacityConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCapacityConfig, path, err)
	}

	if cfg.DefaultCapacity == 0 {
		cfg.DefaultCapacity = capacity.DefaultCapacity
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = capacity.FallbackRules()
	}

	return &cfg, nil
}

func (c *CapacityConfig) Schedule() (*capacity.Schedule, error) {
	s, err := capacity.NewSchedule(c.Rules, c.DefaultCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapacityConfig, err)
	}
	return s, nil
}
