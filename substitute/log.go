package substitute

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/speakeasy-api/typesubst"
)

// LogLevel represents the severity level for logs.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelWarn // default
	}
}

// Logger is the interface used by the engine for logging.
type Logger interface {
	// Debugf, Infof, Warnf, Errorf log formatted messages at respective levels.
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger augmented with the provided fields.
	With(fields map[string]any) Logger
}

// defaultLogger emits compact single-line text logs:
// [LEVEL] ts msg key1=val1 key2=val2 ...
// It is thread-safe; child loggers from With share the writer and its lock.
type defaultLogger struct {
	out        io.Writer
	level      LogLevel
	baseFields map[string]any
	mu         *sync.Mutex
}

// NewLogger creates a default logger with the given level.
// If w is nil, os.Stderr is used.
func NewLogger(level LogLevel, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &defaultLogger{
		out:        w,
		level:      level,
		baseFields: make(map[string]any),
		mu:         &sync.Mutex{},
	}
}

func (l *defaultLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	// Shallow copy of base fields to avoid parent mutation
	merged := make(map[string]any, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &defaultLogger{
		out:        l.out,
		level:      l.level,
		baseFields: merged,
		mu:         l.mu, // share same lock and writer
	}
}

func (l *defaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *defaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *defaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *defaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *defaultLogger) logf(level LogLevel, format string, args ...any) {
	if level > l.level {
		return
	}
	var b strings.Builder
	b.Grow(128)
	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(time.Now().UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(fmt.Sprintf(format, args...))

	// Sort field keys for deterministic output
	if len(l.baseFields) > 0 {
		keys := make([]string, 0, len(l.baseFields))
		for k := range l.baseFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(fieldValue(l.baseFields[k]))
		}
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

func fieldValue(v any) string {
	switch t := v.(type) {
	case string:
		// Quote if contains whitespace
		if strings.IndexFunc(t, func(r rune) bool { return r <= ' ' }) >= 0 {
			return fmt.Sprintf("%q", t)
		}
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// noopLogger discards all output.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any)      {}
func (noopLogger) Infof(string, ...any)       {}
func (noopLogger) Warnf(string, ...any)       {}
func (noopLogger) Errorf(string, ...any)      {}
func (noopLogger) With(map[string]any) Logger { return noopLogger{} }

// typeSummary returns a compact one-line shape of a descriptor for logs,
// truncating the property list at maxProps.
func typeSummary(t *typesubst.Type, maxProps int) string {
	if t == nil {
		return "<nil>"
	}
	if t.Shell != typesubst.ShellNone {
		return t.Shell.String() + "[" + typeSummary(t.Elem, maxProps) + "]"
	}
	if t.Kind != typesubst.KindStruct || len(t.Properties) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('{')
	for i, p := range t.Properties {
		if maxProps > 0 && i >= maxProps {
			fmt.Fprintf(&b, ",+%d", len(t.Properties)-i)
			break
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Name)
	}
	b.WriteByte('}')
	return b.String()
}

// elementSummary is the schema-side counterpart of typeSummary.
func elementSummary(el SchemaElement, maxProps int) string {
	if el == nil {
		return "<nil>"
	}
	names := el.PropertyNames()
	var b strings.Builder
	b.WriteString(el.Name())
	b.WriteByte('{')
	for i, n := range names {
		if maxProps > 0 && i >= maxProps {
			fmt.Fprintf(&b, ",+%d", len(names)-i)
			break
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(n)
	}
	b.WriteByte('}')
	return b.String()
}
