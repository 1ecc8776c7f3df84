// Package logging builds the slog loggers used while scaffolding a project.
// Records are rendered as "[LEVEL] - message key=value" lines, either on the
// console, into a timestamped log file, or nowhere (quiet mode).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Mode selects where log records go.
type Mode string

const (
	// ModeConsole writes log lines to the console writer (stderr by default).
	ModeConsole Mode = "console"
	// ModeFile writes log lines to a timestamped file in Options.Dir.
	ModeFile Mode = "file"
	// ModeQuiet discards all log lines.
	ModeQuiet Mode = "quiet"
)

// FileSuffix is appended to the timestamp to form the log file name.
const FileSuffix = "_pystrap.log"

// Options configures New.
type Options struct {
	Mode  Mode
	Level slog.Level
	// Console is the destination for ModeConsole. Defaults to os.Stderr.
	Console io.Writer
	// Dir is the directory that receives the log file in ModeFile.
	Dir string
	// Now returns the time used for the log file name. Defaults to time.Now.
	Now func() time.Time
}

// New returns a logger for the requested mode. The returned closer must be
// closed when logging is done; it is a no-op except in ModeFile.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	switch opts.Mode {
	case "", ModeConsole:
		w := opts.Console
		if w == nil {
			w = os.Stderr
		}
		return slog.New(NewHandler(w, opts.Level)), nopCloser{}, nil
	case ModeQuiet:
		return Discard(), nopCloser{}, nil
	case ModeFile:
		f, err := openLogFile(opts.Dir, opts.Now)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(NewHandler(f, opts.Level)), f, nil
	default:
		return nil, nil, fmt.Errorf("unknown log mode %q", opts.Mode)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, slog.LevelError+1))
}

// FileName returns the log file name for the given time.
func FileName(t time.Time) string {
	return t.Format("2006-01-02T15-04-05") + FileSuffix
}

func openLogFile(dir string, now func() time.Time) (*os.File, error) {
	if dir == "" {
		dir = "."
	}
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, FileName(now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Handler renders records as single "[LEVEL] - message" lines.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewHandler creates a Handler writing to w at the given minimum level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{mu: &sync.Mutex{}, w: w, level: level}
}

// Enabled reports whether records at level l are written.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle writes a single record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] - %s", levelName(r.Level), r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		out.attrs = append(out.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &out
}

// WithGroup returns a handler that qualifies subsequent attr keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, val)
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
