//go:build !gcloud

package logging

import (
	"context"
	"io"
	"log/slog"
)

// gcpTraceAttrs returns empty for non-GCP environments.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}

// newBaseHandler writes human readable text in dev and JSON elsewhere.
func newBaseHandler(w io.Writer, env Environment, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if env == EnvDev {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
