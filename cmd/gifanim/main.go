// Command gifanim inspects, exports and plays animated GIF files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/gifanim"
)

func main() {
	os.Exit(Main())
}

// Main runs the command and returns its exit status.
func Main() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gifanim: %v\n", err)
		return 1
	}
	return 0
}

// app is the state shared by all subcommands, set up in before.
type app struct {
	cfg   config
	cache *gifanim.FrameCache
	log   *slog.Logger
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{}
	return &cli.Command{
		Name:      "gifanim",
		Usage:     "decode and play animated GIFs",
		Version:   gifanim.Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "read settings from TOML `FILE`"},
			&cli.StringFlag{Name: "log-level", Usage: "logging level (debug, info, warn or error)"},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "log output format (text or json)"},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.infoCommand(),
			a.exportCommand(),
			a.playCommand(),
			a.watchCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") || cfg.LogFormat == "" {
		cfg.LogFormat = cmd.String("log-format")
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return ctx, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch cfg.LogFormat {
	case "text":
		h = slog.NewTextHandler(cmd.Root().ErrWriter, opts)
	case "json":
		h = slog.NewJSONHandler(cmd.Root().ErrWriter, opts)
	default:
		return ctx, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	a.log = slog.New(h)
	gifanim.SetLogger(a.log)

	a.cfg = cfg
	a.cache = gifanim.NewFrameCache(cfg.cacheOptions()...)
	return ctx, nil
}

// decodeFile decodes path through the shared cache using the path as its
// identity.
func (a *app) decodeFile(path string) (*gifanim.Entry, error) {
	if !gifanim.IsGIF(os.DirFS(filepath.Dir(path)), filepath.Base(path)) {
		return nil, fmt.Errorf("%s: %w", path, gifanim.ErrNotGIF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.cache.GetOrDecode(path, data)
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() < n {
		return fmt.Errorf("%s: missing FILE argument", cmd.Name)
	}
	return nil
}
