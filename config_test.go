package memento

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should create the directory and write defaults", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "memento")

		cfg, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("loading config: %v", err)
		}
		if _, err := os.Stat(cfg.File()); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		if cfg.Backend != BackendSQLite {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", BackendSQLite, cfg.Backend)
		}
		if cfg.LocalDB != filepath.Join(dir, "memento.db") {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", filepath.Join(dir, "memento.db"), cfg.LocalDB)
		}
		if cfg.Addr() != "127.0.0.1:8080" {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", "127.0.0.1:8080", cfg.Addr())
		}
		if !reflect.DeepEqual(cfg.Server.AllowedOrigins, []string{"*"}) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", []string{"*"}, cfg.Server.AllowedOrigins)
		}
		if cfg.Server.ShutdownTimeout != 10*time.Second {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", 10*time.Second, cfg.Server.ShutdownTimeout)
		}
		if cfg.Site.BaseURL != "http://localhost:8080" {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", "http://localhost:8080", cfg.Site.BaseURL)
		}
	})

	t.Run("should read an existing file", func(t *testing.T) {
		dir := t.TempDir()
		content := "backend: postgrest\nsupabase:\n  url: https://example.supabase.co\n  anon_key: key\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("loading config: %v", err)
		}
		if cfg.Backend != BackendPostgREST || cfg.Supabase.URL != "https://example.supabase.co" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
	})

	t.Run("should apply environment overrides", func(t *testing.T) {
		t.Setenv("MEMENTO_SERVER_PORT", "9090")
		t.Setenv("MEMENTO_BACKEND", "postgres")

		cfg, err := LoadConfig(t.TempDir())
		if err != nil {
			t.Fatalf("loading config: %v", err)
		}
		if cfg.Server.Port != "9090" || cfg.Backend != BackendPostgres {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected a missing dsn to fail validation")
		}
	})
}
