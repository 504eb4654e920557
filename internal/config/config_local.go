//go:build !gcloud

package config

import (
	"log/slog"
)

// Validate never fails locally: without PRIMIND_TASKS_URL nudges are not
// dispatched.
func (c *TaskQueueConfig) Validate() error {
	if c.PrimindTasksURL == "" {
		slog.Warn("PRIMIND_TASKS_URL is not set, nudge dispatch disabled")
	}
	return nil
}
