// Package ui renders terminal output for human operators. Everything
// here writes to stderr; stdout is reserved for the result path.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"ghfetch/internal/history"
	"ghfetch/internal/task"
)

// Printer renders fetch summaries and history listings.
type Printer struct {
	writer  io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	err     *color.Color
}

// NewPrinter constructs a Printer with colour automatically enabled for
// TTY outputs.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}

	enabled := supportsColor(w) && os.Getenv("NO_COLOR") == ""

	p := &Printer{
		writer:  w,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgBlue),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
	}

	if !enabled {
		p.success.DisableColor()
		p.info.DisableColor()
		p.warn.DisableColor()
		p.err.DisableColor()
	}

	return p
}

// PrintOutcome renders a one-invocation summary.
func (p *Printer) PrintOutcome(outcome task.Outcome) {
	verb := "downloaded"
	if outcome.Skipped {
		verb = "already up to date"
	}

	fmt.Fprintf(p.writer, "%s %s (%s, %s) %s\n",
		p.success.Sprint("✔"),
		outcome.AssetName,
		outcome.TagName,
		formatSize(outcome.Size),
		p.info.Sprint(verb),
	)
}

// PrintError renders a failure line.
func (p *Printer) PrintError(err error) {
	fmt.Fprintf(p.writer, "%s %v\n", p.err.Sprint("✘"), err)
}

// PrintHistory renders recent fetches as an aligned table.
func (p *Printer) PrintHistory(records []history.Record) {
	if len(records) == 0 {
		p.info.Fprintln(p.writer, "No fetches recorded yet.")
		return
	}

	rows := make([][4]string, 0, len(records))
	for _, rec := range records {
		state := "new"
		if rec.Skipped {
			state = "skip"
		}
		rows = append(rows, [4]string{
			rec.FetchedAt.Local().Format("2006-01-02 15:04"),
			rec.Repo + "@" + rec.Tag,
			rec.Asset,
			state,
		})
	}

	widths := [4]int{}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for _, row := range rows {
		fmt.Fprintf(p.writer, "%-*s  %-*s  %-*s  %s\n",
			widths[0], row[0], widths[1], row[1], widths[2], row[2], row[3])
	}
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
