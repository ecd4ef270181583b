// Package cli provides common initialization shared by the server and the
// transfer tool: env file loading, logging setup, config validation and the
// mapping from app config to backend config.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"timeline/internal/backend"
	"timeline/internal/config"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// BackendConfig maps the application config to a backend factory config.
func BackendConfig(cfg *config.Config) backend.Config {
	return backend.Config{
		Type:                  backend.BackendType(cfg.DataBackend),
		DataDirectory:         cfg.DataDirectory,
		SQLiteDBPath:          cfg.SQLiteDBPath,
		GoogleSpreadsheetID:   cfg.GoogleSpreadsheetID,
		GoogleActivitiesSheet: cfg.GoogleActivitiesSheet,
		GoogleCategoriesSheet: cfg.GoogleCategoriesSheet,
		GoogleCredentialsJSON: cfg.GoogleCredentialsJSON,
		GoogleCredentialsFile: cfg.GoogleCredentialsFile,
	}
}
