package gifanim

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gifanim/internal/compositor"
	"github.com/gogpu/gifanim/internal/container"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with decoding on any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gifanim and its internal packages.
// By default gifanim produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by gifanim:
//   - [slog.LevelDebug]: recoverable decode anomalies (skipped extensions,
//     dropped frames, out-of-palette pixels) and cache hits and misses
//   - [slog.LevelWarn]: data discarded after an unrecognised block
//
// Example:
//
//	gifanim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	container.SetLogger(l)
	compositor.SetLogger(l)
}

// Logger returns the current logger used by gifanim.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
