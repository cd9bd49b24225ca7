package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/avance/internal/backup"
	"github.com/alexanderramin/avance/internal/cli"
	"github.com/alexanderramin/avance/internal/config"
	"github.com/alexanderramin/avance/internal/db"
	"github.com/alexanderramin/avance/internal/repository"
	"github.com/alexanderramin/avance/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Paths{})
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Wire repositories
	macroRepo := repository.NewSQLiteMacroProjectRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Snapshot replication after every mutation
	var local, remote backup.Store
	if cfg.SnapshotPath != "" {
		local = backup.NewFileStore(cfg.SnapshotPath)
	}
	if cfg.Remote.Enabled() {
		remote = backup.NewHTTPStore(cfg.Remote.URL,
			backup.WithBearerToken(cfg.Remote.Token),
			backup.WithTimeout(cfg.Remote.Timeout),
		)
	}
	replicator := backup.NewReplicator(func(ctx context.Context) ([]byte, error) {
		return db.ExportSnapshot(ctx, database)
	}, local, remote, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := replicator.Close(ctx); err != nil {
			logger.Warn("snapshot upload did not finish", "error", err)
		}
	}()

	opts := []service.Option{service.WithSnapshotSink(replicator)}
	if cfg.LogUseCases {
		opts = append(opts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr)))
	}

	app := &cli.App{
		Macros:     service.NewMacroProjectService(macroRepo, uow, opts...),
		Projects:   service.NewProjectService(projectRepo, uow, opts...),
		Activities: service.NewActivityService(projectRepo, activityRepo, uow, opts...),
		Progress:   service.NewProgressService(macroRepo, projectRepo, activityRepo, opts...),
		Copy:       service.NewCopyService(uow, opts...),
		Snapshots:  service.NewSnapshotService(database, uow, remote, opts...),
		Plans:      service.NewPlanService(macroRepo, projectRepo, activityRepo, uow, opts...),
		ServeAddr:  cfg.Serve.Addr,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
