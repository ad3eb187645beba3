// Package cli provides the start-up and shutdown steps of cmd/expense-tracker.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expense-tracker/internal/config"
	"expense-tracker/internal/log"
	"expense-tracker/internal/storage"
)

// LoadEnvFile loads a .env file from the working directory if present.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it. Problems are
// printed to stderr, since logging is not set up yet, and the process exits.
func LoadAndValidateConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger sends structured logs to the configured log file, since the
// terminal belongs to the UI, and makes it the default logger. The returned
// closer releases the file.
func SetupLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logCfg, closer, err := log.NewFileConfig(cfg.LogFile, level)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger, closer, nil
}

// InitSQLite opens the record store at dbPath. Failures are logged and
// returned so the caller can release what it already holds.
func InitSQLite(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.ErrorContext(context.Background(), "Failed to initialize SQLite repository",
			log.FieldError, err, log.FieldPath, dbPath)
		return nil, err
	}
	return repo, nil
}

// OnShutdownSignal calls stop once when SIGINT or SIGTERM arrives. The
// returned function detaches the handler.
func OnShutdownSignal(logger *log.Logger, stop func()) (detach func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			logger.InfoContext(context.Background(), "Shutdown signal received",
				"signal", sig.String(), log.FieldOperation, log.OpShutdown)
			stop()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
