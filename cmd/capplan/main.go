package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/capplan/internal/cli"
	"github.com/alexanderramin/capplan/internal/config"
	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	liveRepo := repository.NewSQLiteDatasetRepo(database)
	scenarioRepo := repository.NewSQLiteScenarioRepo(database)
	workspaceRepo := repository.NewSQLiteWorkspaceRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	// Wire services
	scenarios := service.NewScenarioService(
		liveRepo, scenarioRepo, workspaceRepo, uow,
		cfg.ScenarioTTL(),
		cli.NewTerminalNotifier(os.Stderr),
		observer,
	)

	app := &cli.App{
		Scenarios: scenarios,
		Planning:  service.NewPlanningService(scenarios, cfg.RecommendLimit, observer),
		Import:    service.NewImportService(scenarios, cfg.ImportChunkSize, observer),
	}

	// Prompts and progress bars only make sense with a person at the terminal.
	app.IsInteractive = func() bool {
		in, out := os.Stdin.Fd(), os.Stdout.Fd()
		return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
			(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
