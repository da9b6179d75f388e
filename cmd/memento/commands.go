package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/memento-gifts/memento"
	"github.com/memento-gifts/memento/db"
	"github.com/memento-gifts/memento/domain"
	"github.com/memento-gifts/memento/internal/server"
	"github.com/memento-gifts/memento/postgres"
	"github.com/memento-gifts/memento/pretty"
	"github.com/memento-gifts/memento/render"
	"github.com/memento-gifts/memento/seed"
	flag "github.com/spf13/pflag"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet("memento "+name, flag.ContinueOnError)
}

func runServe(a *app, args []string) error {
	flags := newFlagSet("serve")
	addr := flags.String("addr", a.cfg.Addr(), "listen address")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	manager := memento.NewManager(catalog)
	manager.Load(ctx)
	if msg := manager.Error(); msg != "" {
		a.logger.Warn("serving with fallback data", "error", msg, "experiences", len(manager.Experiences()))
	}

	if a.cfg.Server.JWTSecret == "" {
		a.logger.Warn("no jwt secret configured, the admin API is disabled")
	}

	srv, err := server.New(catalog, manager,
		server.WithJWTSecret(a.cfg.Server.JWTSecret),
		server.WithAllowedOrigins(a.cfg.Server.AllowedOrigins),
		server.WithBaseURL(a.cfg.Site.BaseURL),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, *addr, a.cfg.Server.ShutdownTimeout)
}

func runList(a *app, args []string) error {
	flags := newFlagSet("list")
	category := flags.String("category", "", "only list experiences of this category id")
	trending := flags.Bool("trending", false, "only list trending experiences")
	featured := flags.Bool("featured", false, "only list featured experiences")
	asJSON := flags.Bool("json", false, "print JSON instead of a table")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}

	var experiences []*domain.Experience
	switch {
	case *category != "":
		if _, ok := catalog.Category(*category); !ok {
			return fmt.Errorf("unknown category %q", *category)
		}
		experiences = catalog.ExperiencesByCategory(ctx, *category)
	case *trending:
		experiences = catalog.TrendingExperiences(ctx)
	case *featured:
		experiences = catalog.FeaturedExperiences(ctx)
	default:
		experiences = catalog.AllExperiences(ctx)
	}

	if *asJSON {
		output, err := pretty.JSON(experiences)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(output))
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tFLAGS")
	for _, e := range experiences {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Category, render.Price(e.Price), flagList(e))
	}
	return w.Flush()
}

func flagList(e *domain.Experience) string {
	var flags []string
	if e.Trending {
		flags = append(flags, "trending")
	}
	if e.Featured {
		flags = append(flags, "featured")
	}
	if e.Romantic {
		flags = append(flags, "romantic")
	}
	if e.Adventurous {
		flags = append(flags, "adventurous")
	}
	if e.Group {
		flags = append(flags, "group")
	}
	return strings.Join(flags, ",")
}

func runExport(a *app, args []string) error {
	flags := newFlagSet("export")
	output := flags.StringP("output", "o", "", "write to this file instead of stdout")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	exported, err := memento.NewManager(catalog).Export(ctx)
	if err != nil {
		return err
	}
	return a.writeOutput(*output, exported)
}

func runImport(a *app, args []string) error {
	flags := newFlagSet("import")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: memento import <file>")
	}

	payload, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	return a.printResult(memento.NewManager(catalog).Import(ctx, payload))
}

func runReset(a *app, args []string) error {
	flags := newFlagSet("reset")
	yes := flags.BoolP("yes", "y", false, "do not ask for confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("reset deletes every experience, rerun with --yes to confirm")
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	result, err := memento.NewManager(catalog).Reset(ctx)
	if err != nil {
		return err
	}
	return a.printResult(result)
}

// runSeed loads the sample catalog into an empty store, or replaces the store with --force.
func runSeed(a *app, args []string) error {
	flags := newFlagSet("seed")
	force := flags.Bool("force", false, "replace existing experiences")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	if existing := catalog.AllExperiences(ctx); len(existing) > 0 && !*force {
		return fmt.Errorf("store already holds %d experiences, rerun with --force to replace them", len(existing))
	}
	return a.printResult(memento.NewManager(catalog).Import(ctx, seed.JSON()))
}

func runSitemap(a *app, args []string) error {
	flags := newFlagSet("sitemap")
	output := flags.StringP("output", "o", "", "write to this file instead of stdout")
	baseURL := flags.String("base-url", a.cfg.Site.BaseURL, "public URL of the site")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	catalog, err := a.catalog(ctx)
	if err != nil {
		return err
	}
	sitemap, err := render.SitemapXML(*baseURL, catalog.AllExperiences(ctx), catalog.Categories)
	if err != nil {
		return err
	}
	return a.writeOutput(*output, sitemap)
}

func runToken(a *app, args []string) error {
	flags := newFlagSet("token")
	subject := flags.String("subject", "admin", "token subject")
	ttl := flags.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	token, err := server.GenerateToken(a.cfg.Server.JWTSecret, *subject, *ttl)
	if err != nil {
		return fmt.Errorf("generating token (set server.jwt_secret or MEMENTO_SERVER_JWT_SECRET): %w", err)
	}
	fmt.Fprintln(a.out, token)
	return nil
}

func runMigrate(a *app, args []string) error {
	flags := newFlagSet("migrate")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	switch a.cfg.Backend {
	case memento.BackendSQLite:
		repo, err := db.Open(a.cfg.LocalDB)
		if err != nil {
			return err
		}
		a.logger.Info("sqlite database is up to date", "path", a.cfg.LocalDB)
		return repo.Close()
	case memento.BackendPostgres:
		if err := postgres.Migrate(ctx, a.cfg.Postgres.DSN); err != nil {
			return err
		}
		a.logger.Info("postgres database is up to date")
		return nil
	default:
		return fmt.Errorf("the %s backend has no migrations to apply, the schema is managed by the hosted project", a.cfg.Backend)
	}
}

func (a *app) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := a.out.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (a *app) printResult(result *memento.Result) error {
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Fprintln(a.out, result.Message)
	return nil
}
