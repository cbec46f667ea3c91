// Package testutil provides logging helpers shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, so
// controller and workspace logs only show up on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(newTestHandler(t))
}

// NewRecordingLogger is NewTestLogger plus an in-memory copy of every
// record, for tests that assert on what was logged.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{}
	return slog.New(&teeHandler{Handler: newTestHandler(t), rec: rec}), rec
}

func newTestHandler(t testing.TB) slog.Handler {
	return slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// LogEntry is one captured record with its attributes flattened to strings.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// LogRecorder collects records written through a recording logger.
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Entries returns a copy of the captured records in write order.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

// Find returns the first record with the given level and message.
func (r *LogRecorder) Find(level slog.Level, msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (r *LogRecorder) add(e LogEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

type teeHandler struct {
	slog.Handler
	rec   *LogRecorder
	attrs []slog.Attr
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	e := LogEntry{Level: record.Level, Message: record.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		e.Attrs[a.Key] = a.Value.String()
	}
	record.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.rec.add(e)
	return h.Handler.Handle(ctx, record)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &teeHandler{Handler: h.Handler.WithAttrs(attrs), rec: h.rec, attrs: merged}
}

// WithGroup is passed through; grouped attributes are not captured by key.
func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{Handler: h.Handler.WithGroup(name), rec: h.rec, attrs: h.attrs}
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
