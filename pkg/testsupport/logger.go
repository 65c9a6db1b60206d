package testsupport

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-formdef/pkg/interfaces"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// RecordingLogger captures log calls so tests can assert on diagnostics.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	fields  map[string]any
}

var (
	_ interfaces.Logger       = (*RecordingLogger)(nil)
	_ interfaces.FieldsLogger = (*RecordingLogger)(nil)
)

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Fields:  maps.Clone(l.fields),
	})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

// WithContext returns the same recorder.
func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

// WithFields returns a recorder sharing the same entries with extra fields.
func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &RecordingLogger{mu: l.mu, entries: l.entries, fields: merged}
}

// Entries returns a copy of the captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), *l.entries...)
}

// Messages returns the messages logged at level.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, entry := range l.Entries() {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}
	return out
}
