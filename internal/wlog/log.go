// Package wlog is a small structured-logging facade shaped after the
// package-level Info/Warn/Error/Debug/Crit calls used throughout the
// teacher codebase, backed by the standard library's log/slog instead of
// an external logging library (none of the retrieved examples import one).
package wlog

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// runID identifies this process in every record emitted, so that log lines
// from concurrent runs (e.g. several cmd/vcdstate invocations piping into
// the same aggregator) can be told apart.
var runID = uuid.New().String()

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// Logger is a named component logger; every record it emits carries its
// component name and the process run id.
type Logger struct {
	component string
}

// New returns a Logger identifying itself as component in every record.
func New(component string) *Logger {
	return &Logger{component: component}
}

// SetVerbose raises or lowers the package-wide minimum level. Debug records
// are dropped unless this has been called with true.
func SetVerbose(verbose bool) {
	if verbose {
		base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func (l *Logger) args(kv []any) []any {
	return append([]any{"component", l.component, "run", runID}, kv...)
}

// Debug logs a low-level diagnostic, dropped unless SetVerbose(true) was
// called.
func (l *Logger) Debug(msg string, kv ...any) {
	base.Debug(msg, l.args(kv)...)
}

// Info logs routine, expected progress.
func (l *Logger) Info(msg string, kv ...any) {
	base.Info(msg, l.args(kv)...)
}

// Warn logs a recoverable anomaly the caller chose to continue past.
func (l *Logger) Warn(msg string, kv ...any) {
	base.Warn(msg, l.args(kv)...)
}

// Error logs a failure that aborted the operation in progress.
func (l *Logger) Error(msg string, kv ...any) {
	base.Error(msg, l.args(kv)...)
}

// Crit logs a fatal condition and terminates the process, mirroring
// go-ethereum's log.Crit.
func (l *Logger) Crit(msg string, kv ...any) {
	base.Error(msg, l.args(kv)...)
	os.Exit(1)
}

// Fields renders kv pairs into a single string, for callers that want a
// log-shaped line without going through slog.
func Fields(kv ...any) string {
	s := ""
	for i := 0; i+1 < len(kv); i += 2 {
		s += fmt.Sprintf("%v=%v ", kv[i], kv[i+1])
	}
	return s
}
