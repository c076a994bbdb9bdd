// Package logging builds the slog logger used by the converter.
//
// Every record is stamped with the application name and the id of the
// current run, so the lines of one batch can be grouped after the fact.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// AppName is added to every record under the "app" key.
const AppName = "konverter"

// Options configures New.
type Options struct {
	// Level is one of "debug", "info", "warn" (or "warning") and "error".
	Level string

	// Format is "text" or "json".
	Format string

	// Output receives the log lines.
	Output io.Writer

	// RunID identifies the run. A random id is generated when empty.
	RunID string
}

// New creates a logger from opts.
//
// JSON output renames the time and level keys to "ts" and "severity" so
// the lines can be queried alongside other services.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{Level: level})
	case "json":
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) > 0 {
					return a
				}
				switch a.Key {
				case slog.TimeKey:
					a.Key = "ts"
				case slog.LevelKey:
					a.Key = "severity"
				}
				return a
			},
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(&runHandler{Handler: handler, runID: runID}), nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type runHandler struct {
	slog.Handler
	runID string
}

func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.String("app", AppName), slog.String("run_id", h.runID))
	return h.Handler.Handle(ctx, r)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs), runID: h.runID}
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name), runID: h.runID}
}
