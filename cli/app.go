package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/warp/cpi-engine/config"
	"github.com/warp/cpi-engine/cpi"
	"github.com/warp/cpi-engine/cpi/store"
	"github.com/warp/cpi-engine/logging"
	"github.com/warp/cpi-engine/store/postgres"
	"github.com/warp/cpi-engine/store/seed"
	"github.com/warp/cpi-engine/store/sqlite"
)

// Backend is what the commands need from a store.
type Backend interface {
	cpi.IndexProvider
	cpi.CoverageProvider
	cpi.IndexWriter
	Close() error
}

// memoryBackend adds a no-op Close to the in-memory store.
type memoryBackend struct {
	*store.Memory
}

func (memoryBackend) Close() error { return nil }

// app is built once per command invocation from configuration.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	backend Backend
	calc    *cpi.Calculator
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return nil, err
	}

	eras, err := cfg.EraTable()
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		calc: cpi.NewCalculator(backend,
			cpi.WithEraTable(eras),
			cpi.WithBounds(cfg.Bounds()),
			cpi.WithConcurrency(cfg.Calc.SeriesConcurrency),
			cpi.WithLogger(log),
		),
	}

	if cfg.Store.SeedPath != "" {
		if err := a.seedIfEmpty(ctx, cfg.Store.SeedPath); err != nil {
			backend.Close()
			return nil, err
		}
	}
	return a, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memoryBackend{store.NewMemory()}, nil
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Store.DatabaseURL)
	case config.DriverSQLite:
		if cfg.Store.SQLitePath != sqlite.MemoryPath {
			if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.New(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// seedIfEmpty imports the seed file only into a store without data, so
// restarts do not stack duplicate revisions.
func (a *app) seedIfEmpty(ctx context.Context, path string) error {
	_, err := a.backend.Coverage(ctx)
	switch {
	case err == nil:
		a.log.WithField("seed", path).Debug("store already has data, skipping seed")
		return nil
	case !errors.Is(err, cpi.ErrIndexUnavailable):
		return err
	}

	records, err := seed.Load(path)
	if err != nil {
		return err
	}
	n, err := seed.Import(ctx, a.backend, records, seed.DefaultBatchSize)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"seed": path, "records": n}).Info("seeded index store")
	return nil
}

func (a *app) Close() error {
	return a.backend.Close()
}
