// Package cli implements the aas-timeseries command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - render: Write a figure description as Vega JSON, a zip bundle or SVG
//   - inspect: Print the layers and views of a figure description
//   - cache: Manage the rendered artifact cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every data table and file the export writes.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aperiosoftware/aas-timeseries/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Wrote 3 files (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline and export events at debug level and, when a
// spinner is running, shows the current stage on it.
type logHooks struct {
	logger  *log.Logger
	spinner *Spinner
}

// installHooks registers hooks for the pipeline and the export. s may be
// nil.
func installHooks(l *log.Logger, s *Spinner) {
	h := &logHooks{logger: l, spinner: s}
	observability.SetPipelineHooks(h)
	observability.SetExportHooks(h)
}

func (h *logHooks) stage(format string, args ...any) {
	if h.spinner != nil {
		h.spinner.SetMessage(fmt.Sprintf(format, args...))
	}
}

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("loading figure", "config", path)
	h.stage("Loading %s...", filepath.Base(path))
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, layers int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "config", path, "error", err)
		return
	}
	h.logger.Debug("loaded figure", "config", path, "layers", layers, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
	h.stage("Rendering %s...", strings.Join(formats, ", "))
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnExportStart(_ context.Context, layers, views int) {
	h.logger.Debug("exporting", "layers", layers, "views", views)
}

func (h *logHooks) OnDataExported(_ context.Context, id string, rows, columns int, embedded bool) {
	h.logger.Debug("exported data", "id", id, "rows", rows, "columns", columns, "embedded", embedded)
	h.stage("Exported table %s (%d rows)...", id, rows)
}

func (h *logHooks) OnFileWritten(_ context.Context, path string, size int64) {
	h.logger.Debug("wrote file", "path", path, "bytes", size)
	h.stage("Wrote %s...", filepath.Base(path))
}

func (h *logHooks) OnExportComplete(_ context.Context, d time.Duration, err error) {
	h.logger.Debug("export finished", "duration", d, "error", err)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.ExportHooks   = (*logHooks)(nil)
)
