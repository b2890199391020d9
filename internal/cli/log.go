// Package cli implements the garden command-line interface.
//
// Commands lay out and render photo galleries, browse them in the terminal,
// validate content collections, run the study tools and start the preview
// server. The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - gallery: Render a manifest to HTML, SVG or JSON, or draw the lightbox state machine
//   - browse: Page through a gallery in the terminal
//   - content: Validate and list content collections
//   - tools: Run the flashcard generator and reading coach
//   - serve: Start the preview server
//   - cache: Inspect and clear the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking, and
// the observability hooks log pipeline, cache and navigation events at debug
// level.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/itsuki/garden/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Validated 42 entries (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports every observability event as a debug line.
type logHooks struct {
	logger *log.Logger
}

// registerHooks routes all hook categories to l.
func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetToolHooks(h)
}

func (h *logHooks) OnLayoutStart(_ context.Context, images int) {
	h.logger.Debug("layout start", "images", images)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, columns int, d time.Duration, err error) {
	h.logger.Debug("layout done", "columns", columns, "duration", d, "error", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// Requests are already logged by the server middleware.
func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("route", "method", method, "pattern", route, "status", status, "duration", d)
}

func (h *logHooks) OnToolRun(_ context.Context, tool, action string, d time.Duration, err error) {
	h.logger.Debug("tool run", "tool", tool, "action", action, "duration", d, "error", err)
}

func (h *logHooks) OnNavigate(_ context.Context, event string, from, to int) {
	h.logger.Debug("lightbox", "event", event, "from", from, "to", to)
}
