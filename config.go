package memento

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends understood by the CLI.
const (
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendPostgREST = "postgrest"
)

type SupabaseConfig struct {
	URL     string `mapstructure:"url"`      // Project URL, e.g. https://xyz.supabase.co
	AnonKey string `mapstructure:"anon_key"` // API key sent as apikey and bearer token
}

type PostgresConfig struct {
	DSN              string        `mapstructure:"dsn"`
	ApplicationName  string        `mapstructure:"application_name"`
	MaxConns         int32         `mapstructure:"max_conns"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	Port            string        `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Config is the catalog configuration, persisted as config.yaml in the config directory.
// Every key can be overridden with a MEMENTO_ environment variable, e.g.
// MEMENTO_SUPABASE_ANON_KEY or MEMENTO_SERVER_PORT.
type Config struct {
	ConfigDir string         `mapstructure:"config_dir"`
	Backend   string         `mapstructure:"backend"` // sqlite, postgres or postgrest
	LocalDB   string         `mapstructure:"local_db"`
	Supabase  SupabaseConfig `mapstructure:"supabase"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
	Server    ServerConfig   `mapstructure:"server"`
	Site      SiteConfig     `mapstructure:"site"`
}

// LoadConfig creates the config directory if needed, writes a default config.yaml on first
// run, reads it and overlays MEMENTO_ environment variables.
func LoadConfig(configDir string) (*Config, error) {
	if _, err := os.ReadDir(configDir); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking if directory exists %s: %w", configDir, err)
		}
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("creating config dir %s: %w", configDir, err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("config_dir", configDir)
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("local_db", filepath.Join(configDir, "memento.db"))
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.anon_key", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.application_name", "memento")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.statement_timeout", 30*time.Second)
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("site.base_url", "http://localhost:8080")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file : %w", err)
		}
		if err := v.SafeWriteConfig(); err != nil {
			return nil, fmt.Errorf("writing config file : %w", err)
		}
	}

	// Environment variables override the file but are never written to it.
	v.SetEnvPrefix("MEMENTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address of the HTTP server.
func (cfg *Config) Addr() string {
	return cfg.Server.Address + ":" + cfg.Server.Port
}

// File returns the path of the config file.
func (cfg *Config) File() string {
	return filepath.Join(cfg.ConfigDir, "config.yaml")
}

// Validate checks that the selected backend has what it needs to connect.
func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case BackendSQLite:
		if cfg.LocalDB == "" {
			return errors.New("local_db is required for the sqlite backend")
		}
	case BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for the postgres backend")
		}
	case BackendPostgREST:
		if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
			return errors.New("supabase.url and supabase.anon_key are required for the postgrest backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}
