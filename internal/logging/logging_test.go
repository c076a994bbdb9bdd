package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	attrs map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	if h.attrs == nil {
		h.attrs = make(map[string]slog.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value
		return true
	})
	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *captureHandler) WithGroup(_ string) slog.Handler {
	return h
}

func TestRunHandlerAddsAppAndRunID(t *testing.T) {
	capture := &captureHandler{}
	handler := &runHandler{Handler: capture, runID: "run-abc"}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	require.NoError(t, handler.Handle(context.Background(), rec))

	assert.Equal(t, AppName, capture.attrs["app"].String())
	assert.Equal(t, "run-abc", capture.attrs["run_id"].String())
}

func TestRunHandlerKeepsWrappingAfterWith(t *testing.T) {
	capture := &captureHandler{}
	var handler slog.Handler = &runHandler{Handler: capture, runID: "run-abc"}

	handler = handler.WithAttrs([]slog.Attr{slog.String("file", "a.csv")}).WithGroup("g")
	_, ok := handler.(*runHandler)
	assert.True(t, ok)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf, RunID: "run-1"})
	require.NoError(t, err)

	logger.Debug("converted", slog.String("file", "a.csv"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "converted", line["msg"])
	assert.Equal(t, "DEBUG", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "a.csv", line["file"])
	assert.Equal(t, AppName, line["app"])
	assert.Equal(t, "run-1", line["run_id"])
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "text", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "app=konverter")
	assert.Contains(t, buf.String(), "run_id=")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(Options{Level: "loud", Output: &bytes.Buffer{}})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
