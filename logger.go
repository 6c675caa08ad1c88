package passage

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler is a slog.Handler that drops every record. Enabled returns
// false so callers skip attribute formatting entirely when logging is off.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func newSilentLogger() *slog.Logger { return slog.New(discardHandler{}) }

// loggerPtr holds the active logger. Swapped atomically so SetLogger may be
// called while resources on other goroutines are logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newSilentLogger())
}

// SetLogger configures the logger used by passage and its sub-packages.
// By default passage produces no log output; pass nil to restore that.
//
// Levels used by the framework:
//   - [slog.LevelDebug]: resource state transitions (compile, link, free)
//   - [slog.LevelInfo]: backend lifecycle events (backend initialized)
//   - [slog.LevelWarn]: suppressed teardown failures (Close on a pass that
//     could not free its program)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newSilentLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current passage logger. Sub-packages call this to share
// one logger configuration without an import cycle.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
