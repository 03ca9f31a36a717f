package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/timesheet/internal/cli"
	"github.com/alexanderramin/timesheet/internal/config"
	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/alexanderramin/timesheet/internal/httpapi"
	"github.com/alexanderramin/timesheet/internal/repository"
	"github.com/alexanderramin/timesheet/internal/service"
	"github.com/alexanderramin/timesheet/internal/worktime"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.Open(ctx, cfg.Dialect(), cfg.DBTarget())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and unit of work
	entryRepo := repository.NewSQLEntryRepo(database, cfg.Dialect())
	workTypeRepo := repository.NewSQLWorkTypeRepo(database)
	uow := db.NewSQLUnitOfWork(database)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := httpapi.NewMetrics()
	observers := []service.UseCaseObserver{metrics}
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Wire services
	validator := worktime.New(cfg.DailyCapMin)
	app := &cli.App{
		Entries:   service.NewEntryService(entryRepo, uow, cfg.Dialect(), validator, observers...),
		WorkTypes: service.NewWorkTypeService(workTypeRepo),
		Validator: validator,
		User:      cfg.User,
		HTTPAddr:  cfg.HTTPAddr,
		Metrics:   metrics,
		Logger:    logger,
	}

	// Detect interactive terminal for the add form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
