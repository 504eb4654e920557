//go:build !gcloud

package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-commute-slots/internal/config"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if cfg.TaskQueue.PrimindTasksURL == "" {
		slog.Warn("PRIMIND_TASKS_URL not set, nudge dispatch disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewPrimindTasksClient(
		cfg.TaskQueue.PrimindTasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

// InitObservability sets up logging, tracing and metrics for a local process.
func InitObservability(ctx context.Context, module logging.Module, version string, level slog.Leveler) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "commute-slots"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	return observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  version,
			Revision: "",
		},
		Environment:   env,
		LogLevel:      level,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: module,
	})
}
