// Command memento runs and administers the Memento experience catalog.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const usage = `Usage: memento [global flags] <command> [flags]

Commands:
  serve     serve the public site and the admin API
  list      print experiences
  export    write every experience as JSON
  import    replace every experience with a JSON file
  reset     delete every experience
  seed      load the sample catalog
  sitemap   write sitemap.xml
  token     print an admin API token
  migrate   apply database migrations

Global flags:
`

type command struct {
	run func(app *app, args []string) error
}

var commands = map[string]command{
	"serve":   {run: runServe},
	"list":    {run: runList},
	"export":  {run: runExport},
	"import":  {run: runImport},
	"reset":   {run: runReset},
	"seed":    {run: runSeed},
	"sitemap": {run: runSitemap},
	"token":   {run: runToken},
	"migrate": {run: runMigrate},
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "memento:", err)
		os.Exit(1)
	}
}

// run parses the global flags and runs the named command, writing command output to stdout.
func run(args []string, stdout io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	global := flag.NewFlagSet("memento", flag.ContinueOnError)
	global.SetInterspersed(false)
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}

	configDir := global.String("config-dir", defaultConfigDir(), "configuration directory")
	backend := global.String("backend", "", "store backend override (sqlite, postgres, postgrest)")
	verbose := global.BoolP("verbose", "v", false, "enable debug logging")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("no command given")
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		global.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := newApp(*configDir, *backend, logger, stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	return cmd.run(a, global.Args()[1:])
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".memento"
	}
	return filepath.Join(dir, "memento")
}
