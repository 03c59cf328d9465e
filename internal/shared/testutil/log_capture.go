package testutil

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log record with its attributes flattened by key
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type entryLog struct {
	mu      sync.Mutex
	entries []Entry
}

// LogCapture is a slog.Handler that keeps every record in memory.
// Loggers derived through With share the capture and carry their attrs
// into each entry; groups are ignored.
type LogCapture struct {
	log    *entryLog
	preset []slog.Attr
	t      testing.TB
}

// NewTestLogger returns a logger backed by a fresh LogCapture. Records are
// echoed to t.Log so they show up with failing tests.
func NewTestLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{log: &entryLog{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	e := Entry{Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range c.preset {
		e.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Any()
		return true
	})

	c.log.mu.Lock()
	c.log.entries = append(c.log.entries, e)
	c.log.mu.Unlock()

	if c.t != nil {
		c.t.Logf("%s %s %v", r.Level, r.Message, e.Attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogCapture{log: c.log, preset: append(slices.Clip(c.preset), attrs...), t: c.t}
}

func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Entries returns a snapshot of everything captured so far
func (c *LogCapture) Entries() []Entry {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	return slices.Clone(c.log.entries)
}

// AtLevel returns the entries logged at exactly level
func (c *LogCapture) AtLevel(level slog.Level) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// HasMessage reports whether any entry's message contains substr
func (c *LogCapture) HasMessage(substr string) bool {
	return slices.ContainsFunc(c.Entries(), func(e Entry) bool {
		return strings.Contains(e.Message, substr)
	})
}

// HasAttr reports whether any entry carries key with exactly value
func (c *LogCapture) HasAttr(key string, value any) bool {
	return slices.ContainsFunc(c.Entries(), func(e Entry) bool {
		v, ok := e.Attrs[key]
		return ok && v == value
	})
}

func (c *LogCapture) Len() int {
	c.log.mu.Lock()
	defer c.log.mu.Unlock()
	return len(c.log.entries)
}

// AssertLogContains fails t unless an entry at level mentions message
func AssertLogContains(t testing.TB, c *LogCapture, level slog.Level, message string) {
	t.Helper()
	entries := c.AtLevel(level)
	if slices.ContainsFunc(entries, func(e Entry) bool { return strings.Contains(e.Message, message) }) {
		return
	}
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.Message)
	}
	t.Errorf("no %s log containing %q; got %q", level, message, msgs)
}

// AssertNoErrors fails t for every error-level entry
func AssertNoErrors(t testing.TB, c *LogCapture) {
	t.Helper()
	for _, e := range c.AtLevel(slog.LevelError) {
		t.Errorf("unexpected error log %q %v", e.Message, e.Attrs)
	}
}
