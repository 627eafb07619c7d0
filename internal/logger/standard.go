package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// StandardLogger provides a baseline logger implementation backed by a single writer.
type StandardLogger struct {
	mu        sync.Mutex
	level     Level
	output    io.Writer
	formatter Formatter
	fields    []Field
}

// NewStandardLogger constructs a StandardLogger instance configured by the provided options.
func NewStandardLogger(options ...Option) *StandardLogger {
	log := &StandardLogger{
		level:  LevelInfo,
		output: os.Stderr,
	}

	for _, opt := range options {
		if opt != nil {
			opt(log)
		}
	}

	if log.output == nil {
		log.output = os.Stderr
	}
	if log.formatter == nil {
		log.formatter = &TextFormatter{TimestampFormat: "15:04:05"}
	}

	return log
}

// Option configures a StandardLogger during construction.
type Option func(*StandardLogger)

// WithLevel sets the minimum Level that will be emitted by the logger.
func WithLevel(level Level) Option {
	return func(l *StandardLogger) {
		l.level = level
	}
}

// WithOutput redirects log output to the provided writer.
func WithOutput(w io.Writer) Option {
	return func(l *StandardLogger) {
		l.output = w
	}
}

// WithFormatter overrides the formatter used to render log entries.
func WithFormatter(formatter Formatter) Option {
	return func(l *StandardLogger) {
		l.formatter = formatter
	}
}

// WithFields registers default fields for all subsequent log entries.
func WithFields(fields ...Field) Option {
	return func(l *StandardLogger) {
		l.fields = append(l.fields, fields...)
	}
}

// Debug emits a debug level log entry.
func (l *StandardLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, false, format, args...)
}

// Info emits an info level log entry.
func (l *StandardLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, false, format, args...)
}

// Warn emits a warn level log entry.
func (l *StandardLogger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, false, format, args...)
}

// Error emits an error level log entry.
func (l *StandardLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, false, format, args...)
}

// Success emits an info level entry flagged for success styling.
func (l *StandardLogger) Success(format string, args ...interface{}) {
	l.log(LevelInfo, true, format, args...)
}

// With derives a new logger enriched with the provided fields.
func (l *StandardLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	child := &StandardLogger{
		level:     l.level,
		output:    l.output,
		formatter: l.formatter,
		fields:    append(append([]Field{}, l.fields...), fields...),
	}
	l.mu.Unlock()
	return child
}

// SetLevel adjusts the minimum log level emitted.
func (l *StandardLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *StandardLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *StandardLogger) log(level Level, success bool, format string, args ...interface{}) {
	if level < l.GetLevel() {
		return
	}

	entry := &Entry{
		Time:    time.Now(),
		Level:   level,
		Success: success,
		Message: fmt.Sprintf(format, args...),
		Fields:  l.fields,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(l.output, "log format error: %v\n", err)
		return
	}
	_, _ = l.output.Write(data)
}

var _ Logger = (*StandardLogger)(nil)
