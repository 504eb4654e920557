package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             string
	LogLevel         slog.Level
	TravelTimeURL    string
	GenerateOnSignup bool
	TaskQueue        TaskQueueConfig
	Database         *DatabaseConfig
	Redis            *RedisConfig
	Schedule         *ScheduleConfig
	Allocation       *AllocationConfig
	Capacity         *CapacityConfig
	Generation       *GenerationConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

// Enabled reports whether any task queue backend is configured.
func (c *TaskQueueConfig) Enabled() bool {
	return c.PrimindTasksURL != "" || c.GCloudQueueID != ""
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "nudges"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	scheduleConfig, err := LoadScheduleConfig()
	if err != nil {
		return nil, err
	}

	capacityConfig, err := LoadCapacityConfig(os.Getenv(capacityConfigFileEnv))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             port,
		LogLevel:         parseLogLevel(os.Getenv("LOG_LEVEL")),
		TravelTimeURL:    os.Getenv("TRAVEL_TIME_URL"),
		GenerateOnSignup: getEnvBool("GENERATE_ON_SIGNUP", true),
		TaskQueue: TaskQueueConfig{
			PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
			QueueName:       queueName,

			GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

			MaxRetries: getEnvInt("TASK_QUEUE_MAX_RETRIES", 3),
		},
		Database:   LoadDatabaseConfig(),
		Redis:      redisConfig,
		Schedule:   scheduleConfig,
		Allocation: LoadAllocationConfig(),
		Capacity:   capacityConfig,
		Generation: LoadGenerationConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnvInt returns defaultValue when the variable is unset, malformed or
// not positive.
func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return defaultValue
}
