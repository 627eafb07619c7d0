package download

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ProgressReporter receives download progress updates.
type ProgressReporter interface {
	Start(fileName string, totalSize int64)
	Advance(fileName string, current, total int64)
	Done(fileName string, totalSize int64, elapsed time.Duration)
}

// NoopProgressReporter discards all progress events.
type NoopProgressReporter struct{}

func (NoopProgressReporter) Start(string, int64)               {}
func (NoopProgressReporter) Advance(string, int64, int64)      {}
func (NoopProgressReporter) Done(string, int64, time.Duration) {}

// ConsoleProgressReporter renders progress updates to a writer.
type ConsoleProgressReporter struct {
	writer     io.Writer
	lastUpdate time.Time
}

// NewConsoleProgressReporter constructs a ConsoleProgressReporter,
// defaulting to stderr so stdout stays reserved for the result path.
func NewConsoleProgressReporter(w io.Writer) *ConsoleProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &ConsoleProgressReporter{writer: w}
}

func (c *ConsoleProgressReporter) Start(fileName string, totalSize int64) {
	if totalSize > 0 {
		fmt.Fprintf(c.writer, "  %s: downloading (%s)\n", fileName, formatBytes(totalSize))
	} else {
		fmt.Fprintf(c.writer, "  %s: downloading\n", fileName)
	}
	c.lastUpdate = time.Now()
}

func (c *ConsoleProgressReporter) Advance(fileName string, current, total int64) {
	now := time.Now()
	if now.Sub(c.lastUpdate) < 200*time.Millisecond {
		return
	}
	c.lastUpdate = now

	if total > 0 {
		fmt.Fprintf(c.writer, "\r  %s: %s / %s (%.1f%%)",
			fileName, formatBytes(current), formatBytes(total),
			float64(current)/float64(total)*100)
	} else {
		fmt.Fprintf(c.writer, "\r  %s: %s", fileName, formatBytes(current))
	}
}

func (c *ConsoleProgressReporter) Done(fileName string, totalSize int64, elapsed time.Duration) {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 0.001
	}
	fmt.Fprintf(c.writer, "\r  %s: %s in %.1fs (%s/s)\n",
		fileName, formatBytes(totalSize), elapsed.Seconds(),
		formatBytes(int64(float64(totalSize)/seconds)))
}

func formatBytes(n int64) string {
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

// progressReader wraps a reader to emit progress updates while counting
// the bytes consumed.
type progressReader struct {
	reader   io.Reader
	total    int64
	current  int64
	reporter ProgressReporter
	fileName string
	started  time.Time
}

func newProgressReader(r io.Reader, total int64, reporter ProgressReporter, fileName string) *progressReader {
	if reporter == nil {
		reporter = NoopProgressReporter{}
	}

	pr := &progressReader{
		reader:   r,
		total:    total,
		reporter: reporter,
		fileName: fileName,
		started:  time.Now(),
	}

	reporter.Start(fileName, total)
	return pr
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.current += int64(n)
		pr.reporter.Advance(pr.fileName, pr.current, pr.total)
	}
	return n, err
}

func (pr *progressReader) finish() {
	pr.reporter.Done(pr.fileName, pr.current, time.Since(pr.started))
}
