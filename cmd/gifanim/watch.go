package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
)

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "keep GIF files decoded, re-decoding them when they change",
		ArgsUsage: "FILE...",
		Action:    a.watch,
	}
}

func (a *app) watch(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	r := &reloader{app: a, out: cmd.Root().Writer, files: make(map[string]string)}
	dirs := make(map[string]bool)
	for _, path := range cmd.Args().Slice() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		r.files[abs] = path
		if err := r.load(path); err != nil {
			return err
		}
		// Editors often replace files rather than write them in place, so
		// the directory is watched instead of the file.
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}
	a.log.LogAttrs(ctx, slog.LevelInfo, "watching", slog.Int("files", len(r.files)), slog.Int("dirs", len(dirs)))

	for {
		select {
		case <-ctx.Done():
			a.log.LogAttrs(ctx, slog.LevelInfo, "terminating")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			r.handle(ctx, ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.LogAttrs(ctx, slog.LevelError, "watch", slog.Any("error", err))
		}
	}
}

// reloader keeps the cache in step with file system events.
type reloader struct {
	app *app
	out io.Writer

	// files maps absolute paths to the names given on the command line,
	// which are the cache identities.
	files map[string]string
}

func (r *reloader) load(path string) error {
	e, err := r.app.decodeFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "loaded %s: %d frames %dx%d\n", e.Key, e.Len(), e.Width, e.Height)
	return nil
}

// handle invalidates and re-decodes a watched file after a write, create
// or rename, and invalidates it after removal. Decode failures are logged;
// the next change retries.
func (r *reloader) handle(ctx context.Context, ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	path, ok := r.files[abs]
	if !ok {
		return
	}
	log := r.app.log.With(slog.String("file", path), slog.String("op", ev.Op.String()))

	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		n := r.app.cache.Remove(path)
		log.LogAttrs(ctx, slog.LevelDebug, "invalidated", slog.Int("entries", n))
		if err := r.load(path); err != nil {
			log.LogAttrs(ctx, slog.LevelError, "reload", slog.Any("error", err))
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		n := r.app.cache.Remove(path)
		fmt.Fprintf(r.out, "removed %s (%d entries)\n", path, n)
	}
}
