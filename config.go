package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"journeymap/internal/config"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
	"journeymap/internal/logging"
	"journeymap/internal/store"
)

// flags are the persistent command line flags.
type flags struct {
	brand    string
	campaign string
	catalog  string
	storage  string
}

// app holds what every command needs: settings, a logger and the open
// store.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
	repo  *journey.Repository
}

func openApp(ctx context.Context, f *flags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", config.Path(), err)
	}
	if f.storage != "" {
		cfg.Storage.Backend = f.storage
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	opts, err := storeOptions(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", opts.Backend, err)
	}
	log.Debug("opened storage", zap.String("backend", opts.Backend), zap.String("path", opts.Path))

	return &app{cfg: cfg, log: log, store: st, repo: journey.NewRepository(st)}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close storage", zap.Error(err))
	}
	_ = a.log.Sync()
}

// orchestrator returns an orchestrator already switched to the brand and
// campaign from the flags.
func (a *app) orchestrator(f *flags, n journey.Notifier) (*journey.Orchestrator, error) {
	orch := journey.NewOrchestrator(a.repo, journey.Options{
		Logger:   a.log,
		Notifier: n,
		Timeout:  a.cfg.Storage.Timeout.Duration,
	})
	if err := orch.Switch(f.brand, f.campaign); err != nil {
		return nil, err
	}
	return orch, nil
}

// storeOptions points the file backend at a directory and the embedded
// databases at a file inside it.
func storeOptions(cfg *config.Config) (store.Options, error) {
	opts := store.Options{Backend: cfg.Storage.Backend, Path: cfg.Storage.Path, DSN: cfg.Storage.DSN}
	switch opts.Backend {
	case store.BackendBolt, store.BackendSQLite:
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return opts, fmt.Errorf("create storage directory: %w", err)
		}
		name := "journeys.db"
		if opts.Backend == store.BackendSQLite {
			name = "journeys.sqlite"
		}
		opts.Path = filepath.Join(opts.Path, name)
	case store.BackendPostgres:
		if opts.DSN == "" {
			return opts, fmt.Errorf("postgres storage needs a dsn: set [storage] dsn or JOURNEYMAP_DSN")
		}
	}
	return opts, nil
}

func journeySize(cfg *config.Config) geometry.Size {
	return geometry.Size{W: cfg.Canvas.NodeWidth, H: cfg.Canvas.NodeHeight}
}
