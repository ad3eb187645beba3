package main

import (
	"context"
	"fmt"
	"os"

	"expense-tracker/internal/cli"
	"expense-tracker/internal/controller"
	"expense-tracker/internal/log"
	"expense-tracker/internal/ui"
)

func main() {
	os.Exit(run())
}

// run starts the tracker and returns the process exit code. Deferred
// cleanup always runs before the code is returned.
func run() int {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()

	logger, logFile, err := cli.SetupLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to set up logging:", err)
		return 1
	}
	defer logFile.Close()

	ctx := context.Background()
	budget, _ := cfg.BudgetAmount() // checked by Validate

	repo, err := cli.InitSQLite(logger, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", cfg.DBPath, err)
		return 1
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close SQLite repository", log.FieldError, err)
		}
	}()

	logger.InfoContext(ctx, "Starting expense tracker",
		log.FieldOperation, log.OpStartup,
		log.FieldPath, cfg.DBPath,
		"config_file", cfg.Source,
		"budget", budget.String())

	session := controller.NewSession(repo, controller.WithLogger(logger))
	app := ui.New(ctx, session, controller.DispatcherConfig{
		Budget:     budget,
		ExportPath: cfg.ExportPath,
		Logger:     logger,
	})

	detach := cli.OnShutdownSignal(logger, app.Stop)
	defer detach()

	if err := app.Run(); err != nil {
		logger.ErrorContext(ctx, "Terminal UI stopped with error", log.FieldError, err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.InfoContext(ctx, "Expense tracker stopped", log.FieldOperation, log.OpShutdown)
	return 0
}
