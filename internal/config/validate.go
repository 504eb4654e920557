package config

import "errors"

// ValidateForRun checks what the API server needs before it starts serving.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Database.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.Schedule.Classifier(); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.Capacity.Schedule(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
