package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitcms/internal/model"
	"gitcms/internal/paths"
)

// cmsHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<message>\t<key=value ...>
//
// Every record goes to the engine log. Records carrying a valid project_id
// attribute are additionally appended to that project's own log file, so a
// project directory stays a self-contained audit trail.
type cmsHandler struct {
	w        io.Writer
	level    slog.Level
	resolver *paths.Resolver
	attrs    []slog.Attr
}

func (h *cmsHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *cmsHandler) Handle(_ context.Context, r slog.Record) error {
	line := h.formatLine(r)
	if _, err := io.WriteString(h.w, line); err != nil {
		return err
	}
	if projectID := h.projectID(r); projectID != "" {
		h.appendProjectLog(projectID, line)
	}
	return nil
}

func (h *cmsHandler) formatLine(r slog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%s\t%s",
		r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.Level.String(), r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, "\t%s=%v", a.Key, a.Value)
		return true
	})
	b.WriteString("\n")
	return b.String()
}

func (h *cmsHandler) projectID(r slog.Record) string {
	id := ""
	for _, a := range h.attrs {
		if a.Key == "project_id" {
			id = a.Value.String()
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "project_id" {
			id = a.Value.String()
		}
		return true
	})
	if !model.ValidID(id) {
		return ""
	}
	return id
}

// appendProjectLog writes the line into the project's logs folder. Logging
// must never fail an operation, so errors are swallowed.
func (h *cmsHandler) appendProjectLog(projectID, line string) {
	dir := h.resolver.ProjectLogs(projectID)
	if _, err := os.Stat(dir); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "gitcms.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	io.WriteString(f, line)
}

func (h *cmsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cmsHandler{
		w:        h.w,
		level:    h.level,
		resolver: h.resolver,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *cmsHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger writing to logDir/gitcms.log and
// stderr, routing project-tagged records to the project's log as well.
// It returns the slog.Logger, the open log file (for cleanup), and any
// error.
func newLogger(logDir, level string, resolver *paths.Resolver) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "gitcms.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := io.MultiWriter(f, os.Stderr)
	handler := &cmsHandler{w: w, level: parseLevel(level), resolver: resolver}
	return slog.New(handler), f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogAdapter wraps *slog.Logger to satisfy the cms, git and container
// Logger interfaces.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
