package testutil

import (
	"context"
	"testing"

	postgresmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgresContainer starts an empty Postgres database. Callers run
// their own migrations.
func SetupPostgresContainer(ctx context.Context, t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start postgres container: %v", r)
		}
	}()

	container, err := postgresmodule.Run(ctx, "postgres:17-alpine",
		postgresmodule.WithDatabase("commute"),
		postgresmodule.WithUsername("commute"),
		postgresmodule.WithPassword("commute"),
		postgresmodule.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Skipf("failed to get postgres connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("failed to connect to postgres: %v", err)
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				t.Logf("failed to close postgres connection: %v", err)
			}
		}

		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return db, cleanup
}
