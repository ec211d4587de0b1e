// Package cli implements the boxypic command-line interface.
//
// The commands decompose an image into a quadtree and either write the
// result to disk (render, stats), show it interactively (view opens a
// window, tui draws into the terminal), or expose the same pipeline over
// HTTP (serve). The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - render: Write PNG, JPEG, SVG, JSON, DOT or tree-diagram outputs
//   - stats: Print node and leaf counts with a per-depth histogram
//   - view: Interactive window; E/Q tune the threshold, arrows the depth
//   - tui: The same controls rendered with terminal half-blocks
//   - serve: HTTP API with Prometheus metrics
//   - cache: Inspect or clear the artifact cache
//
// # Configuration
//
// Flags override the config file, which overrides built-in defaults. See
// package config for the file format.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so helpers can log without a CLI handle.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of a step with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing now.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Decoded photo.jpg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to
// log.Default() so commands always have one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
