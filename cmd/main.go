package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/primind-commute-slots/internal/app"
	"github.com/KasumiMercury/primind-commute-slots/internal/config"
	"github.com/KasumiMercury/primind-commute-slots/internal/handler"
	"github.com/KasumiMercury/primind-commute-slots/internal/health"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/logging"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/metrics"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/middleware"
)

// Version is set via ldflags at build time
var Version = "dev"

const module = logging.Module("commute-slots")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logLevel := new(slog.LevelVar)

	obs, err := app.InitObservability(ctx, module, Version, logLevel)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}
	logLevel.Set(cfg.LogLevel)

	// Validate configuration
	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	sqlDB, err := a.DB.DB()
	if err != nil {
		slog.Error("failed to access database handle", slog.String("error", err.Error()))
		return 1
	}

	commuteHandler := handler.NewCommuteHandler(a.Signup, a.Recommendations, a.Generation, cfg.Schedule.Location)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      module,
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(a.Redis, sqlDB, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	commuteHandler.Register(r.Group("/api/v1"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("max_alternatives", cfg.Allocation.MaxAlternatives),
			slog.Duration("min_spacing", cfg.Allocation.MinSpacing),
			slog.Duration("bin_width", cfg.Schedule.BinWidth),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
