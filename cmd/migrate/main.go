// Command migrate is the run-once migration worker. It ensures the target
// database exists, applies all pending schema migrations, and exits. On
// failure the process exits non-zero without retrying; retry is the
// orchestrator's responsibility.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/mpaulosky/blogsite/internal/config"
	"github.com/mpaulosky/blogsite/internal/infrastructure/database"
	"github.com/mpaulosky/blogsite/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}
	logger.Init(cfg.LogLevel)

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}

	ctx := context.Background()

	if err := database.EnsureDatabase(ctx, cfg.MaintenanceConnString(), cfg.DBName); err != nil {
		logger.Fatal("Failed to ensure database exists",
			slog.String("database", cfg.DBName),
			slog.String("error", err.Error()))
	}

	m, err := migrate.New("file://"+migrationsPath, cfg.PostgresURL())
	if err != nil {
		logger.Fatal("Failed to create migrator",
			slog.String("error", err.Error()))
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("Database schema already up to date")
	case err != nil:
		logger.Fatal("Migration failed",
			slog.String("error", err.Error()))
	default:
		logger.Info("Migrations applied",
			slog.String("database", cfg.DBName))
	}
}
