// Package logging holds the logger shared by all packages of the program.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the program. Until it is called
// nothing is logged. Passing nil restores the silent default.
//
// Log levels in use:
//   - [slog.LevelDebug]: device candidates, shader sizes, swapchain details
//   - [slog.LevelInfo]: lifecycle events such as loop start and swapchain recreation
//   - [slog.LevelWarn]: skipped swapchain recreation
//   - [slog.LevelError]: presentation errors which were recovered from
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
