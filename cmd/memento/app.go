package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/memento-gifts/memento"
	"github.com/memento-gifts/memento/db"
	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/postgres"
	"github.com/memento-gifts/memento/postgrest"
)

// app holds what every command needs: config, logger, output and lazily opened stores.
type app struct {
	cfg     *memento.Config
	logger  *slog.Logger
	out     io.Writer
	closers []func() error
}

func newApp(configDir, backend string, logger *slog.Logger, out io.Writer) (*app, error) {
	cfg, err := memento.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", cfg.File(), err)
	}
	logger.Debug("loaded config", "file", cfg.File(), "backend", cfg.Backend)
	return &app{cfg: cfg, logger: logger, out: out}, nil
}

// Close releases every store opened by the app.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// openStore opens the configured remote store. The local sqlite database is always
// opened too and serves as the fallback storage; for the sqlite backend it is also the store.
func (a *app) openStore(ctx context.Context) (domain.ExperienceStore, domain.LocalStorage, error) {
	local, err := db.Open(a.cfg.LocalDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening local db %s: %w", a.cfg.LocalDB, err)
	}
	a.closers = append(a.closers, local.Close)

	switch a.cfg.Backend {
	case memento.BackendSQLite:
		return local, local, nil
	case memento.BackendPostgres:
		store, err := postgres.Open(ctx, postgres.Config{
			DSN:              a.cfg.Postgres.DSN,
			ApplicationName:  a.cfg.Postgres.ApplicationName,
			MaxConns:         a.cfg.Postgres.MaxConns,
			MaxConnLifetime:  time.Hour,
			StatementTimeout: a.cfg.Postgres.StatementTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, local, nil
	case memento.BackendPostgREST:
		client, err := postgrest.New(a.cfg.Supabase.URL, a.cfg.Supabase.AnonKey)
		if err != nil {
			return nil, nil, err
		}
		return client, local, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
}

// catalog opens the store and builds the catalog around it.
func (a *app) catalog(ctx context.Context) (*memento.Catalog, error) {
	store, local, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return memento.New(
		memento.WithLogger(a.logger),
		memento.WithStore(store),
		memento.WithLocalStorage(local),
	)
}
