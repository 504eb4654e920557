package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-commute-slots/internal/config"
	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/cache"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/generationrecorder"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/repository"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/traveltime"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/metrics"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/allocation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/alternative"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/eta"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/generation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/recommendation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/signup"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config          *config.Config
	DB              *gorm.DB
	Redis           *redis.Client
	Repository      domain.Repository
	Generation      *generation.Service
	Recommendations *recommendation.Service
	Signup          *signup.Service

	closers []func() error
}

// New connects to Postgres and Redis and wires every service. The caller
// owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			if closeErr := a.Close(); closeErr != nil {
				slog.Warn("cleanup after failed startup", slog.String("error", closeErr.Error()))
			}
		}
	}()

	classifier, err := cfg.Schedule.Classifier()
	if err != nil {
		return nil, err
	}
	schedule, err := cfg.Capacity.Schedule()
	if err != nil {
		return nil, err
	}

	db, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, func() error { return repository.Close(db) })
	a.Repository = repository.NewCommuteRepository(db, cfg.Schedule.Location)

	slog.Info("database connected")

	redisClient, err := newRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.Redis = redisClient
	a.closers = append(a.closers, redisClient.Close)

	slog.Info("redis connected", slog.String("addr", cfg.Redis.Addr))

	recorder, err := generationrecorder.NewRecorder(ctx, generationrecorder.LoadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation result recorder: %w", err)
	}
	a.closers = append(a.closers, recorder.Close)

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}
	if cleanup != nil {
		a.closers = append(a.closers, cleanup)
	}

	generationMetrics, err := metrics.NewGenerationMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation metrics: %w", err)
	}

	var estimator eta.Estimator = eta.NewHeuristic()
	if cfg.TravelTimeURL != "" {
		estimator = eta.NewWithFallback(traveltime.NewClient(cfg.TravelTimeURL))
		slog.Info("travel time service configured", slog.String("url", cfg.TravelTimeURL))
	}

	recCache := cache.NewRecommendationCache(redisClient, cfg.Generation.CacheTTL)

	a.Generation = generation.NewService(generation.Deps{
		Repository: a.Repository,
		Cache:      recCache,
		Lock:       cache.NewGenerationLock(redisClient, cfg.Generation.LockTTL),
		Estimator:  estimator,
		Planner: generation.NewPlanner(
			alternative.NewSelector(cfg.Allocation.MaxAlternatives, cfg.Allocation.MinSpacing),
			allocation.NewEngine(),
			classifier,
			cfg.Allocation.RewardPoints,
		),
		Classifier: classifier,
		Schedule:   schedule,
		Recorder:   recorder,
		TaskQueue:  taskQueue,
		Metrics:    generationMetrics,
	})
	a.Recommendations = recommendation.NewService(a.Repository, recCache)
	a.Signup = signup.NewService(a.Repository, a.Generation, cfg.Allocation.NudgeQuota, cfg.GenerateOnSignup)

	return a, nil
}

func newRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(cfg.Options())

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	return client, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
