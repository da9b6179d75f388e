package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/memento-gifts/memento/db/migrations"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql migrations/*.go
var embedMigrations embed.FS

// Repository provides a centralized structure for database operations, embedding the database connection.
// It implements both domain.ExperienceStore and domain.LocalStorage.
type Repository struct {
	dbConn *sqlx.DB // dbConn is the active database connection pool.
}

// NewRepository initializes a new Repository with the given sqlx.DB database connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		dbConn: db,
	}
}

// Close terminates the database connection.
func (repo *Repository) Close() error {
	err := repo.dbConn.Close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// New opens the SQLite database at path and brings its schema up to date.
// The journal runs in WAL mode, foreign keys are enforced and the pool holds a single connection.
func New(path string) (*sqlx.DB, error) {
	dbConn, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}
	dbConn.SetMaxOpenConns(1)

	if _, err := dbConn.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(context.Background(), dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

// migrate applies the embedded SQL migrations together with the Go migrations registered
// by the migrations package.
func migrate(ctx context.Context, dbConn *sqlx.DB) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, dbConn.DB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider : %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migration : %w", err)
	}
	return nil
}

// Open is a convenience around New and NewRepository.
func Open(name string) (*Repository, error) {
	dbConn, err := New(name)
	if err != nil {
		return nil, err
	}
	return NewRepository(dbConn), nil
}

// Ping checks that the database is reachable.
func (repo *Repository) Ping(ctx context.Context) error {
	if err := repo.dbConn.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging db : %w", err)
	}
	return nil
}
