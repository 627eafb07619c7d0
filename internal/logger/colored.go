package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColoredLogger renders log messages using colours when supported by the output writer.
type ColoredLogger struct {
	*StandardLogger
}

// NewColoredLogger returns a logger configured for colourful terminal output when possible.
func NewColoredLogger(options ...Option) *ColoredLogger {
	std := NewStandardLogger(options...)

	writer := std.output
	if writer == nil {
		writer = os.Stderr
	}

	useColor := supportsColor(writer) && os.Getenv("NO_COLOR") == ""

	std.formatter = &ColoredFormatter{
		timestampFormat: "15:04:05",
		enableColors:    useColor,
	}

	return &ColoredLogger{StandardLogger: std}
}

// ColoredFormatter renders log entries with coloured levels when enabled.
type ColoredFormatter struct {
	timestampFormat string
	enableColors    bool
}

// Format converts the Entry into a coloured textual representation.
func (f *ColoredFormatter) Format(entry *Entry) ([]byte, error) {
	timestampFormat := f.timestampFormat
	if timestampFormat == "" {
		timestampFormat = time.RFC3339
	}

	timestamp := entry.Time.Format(timestampFormat)

	level := entry.Level.String()
	if entry.Success {
		level = "OK"
	}
	if f.enableColors {
		if c := levelColor(entry); c != nil {
			level = c.Sprint(level)
		}
	}

	faint := color.New(color.Faint)
	fieldText := func(field Field) string {
		text := fmt.Sprintf("%s=%v", field.Key, field.Value)
		if f.enableColors {
			return faint.Sprint(text)
		}
		return text
	}

	return formatEntry(entry, timestamp, level, fieldText), nil
}

func levelColor(entry *Entry) *color.Color {
	if entry.Success {
		return color.New(color.FgGreen)
	}
	switch entry.Level {
	case LevelDebug:
		return color.New(color.FgCyan)
	case LevelInfo:
		return color.New(color.FgBlue)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed)
	default:
		return nil
	}
}

func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
