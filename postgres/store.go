// Package postgres implements the remote experiences table directly on the hosted Postgres
// database, using a pgx connection pool.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/memento-gifts/memento/domain"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ domain.ExperienceStore = (*Store)(nil)

// Config holds the pool settings for the hosted database.
type Config struct {
	DSN              string
	ApplicationName  string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	StatementTimeout time.Duration
}

// Store is a domain.ExperienceStore backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open creates the pool and pings the database. The simple protocol is used so the pool works
// behind the PgBouncer transaction pooler.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	if cfg.ApplicationName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}
	if cfg.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging: %w", err)
	}

	return NewStore(pool), nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded goose migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer db.Close()

	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	// Go migrations registered by the sqlite backend must not run against Postgres.
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys, goose.WithDisableGlobalRegistry(true))
	if err != nil {
		return fmt.Errorf("creating migration provider : %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migration : %w", err)
	}
	return nil
}

// Select returns the rows matching all filters, oldest first.
func (s *Store) Select(ctx context.Context, filters ...domain.Filter) ([]*domain.ExperienceRow, error) {
	query, args, err := selectQuery(filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting experiences: %w", err)
	}

	experiences, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[domain.ExperienceRow])
	if err != nil {
		return nil, fmt.Errorf("scanning experiences: %w", err)
	}
	return experiences, nil
}

// Insert stores the rows in one statement and returns them in input order.
func (s *Store) Insert(ctx context.Context, rows ...*domain.ExperienceRow) ([]*domain.ExperienceRow, error) {
	if len(rows) == 0 {
		return []*domain.ExperienceRow{}, nil
	}

	query, args := insertQuery(rows)
	result, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inserting experiences: %w", err)
	}

	stored, err := pgx.CollectRows(result, pgx.RowToAddrOfStructByName[domain.ExperienceRow])
	if err != nil {
		return nil, fmt.Errorf("scanning inserted experiences: %w", err)
	}
	return stored, nil
}

// Update sets the given column values on every row matching all filters.
func (s *Store) Update(ctx context.Context, values map[string]any, filters ...domain.Filter) error {
	if len(values) == 0 {
		return nil
	}

	query, args, err := updateQuery(values, filters)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating experiences: %w", err)
	}
	return nil
}

// Delete removes every row matching all filters.
func (s *Store) Delete(ctx context.Context, filters ...domain.Filter) error {
	query, args, err := deleteQuery(filters)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting experiences: %w", err)
	}
	return nil
}
