// Package download streams release assets to disk. The response headers
// are read first so the skip decision can be made without touching the
// body; a skipped download never reads the network stream.
package download

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	apperrors "ghfetch/internal/errors"
	"ghfetch/internal/logger"
)

const copyBufferSize = 32 * 1024

// HTTPClient represents the subset of http.Client methods required by the downloader.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Downloader performs a single conditional asset download.
type Downloader struct {
	client   HTTPClient
	fs       FileSystem
	reporter ProgressReporter
	logger   logger.Logger
}

// Option customises Downloader construction.
type Option func(*Downloader)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client HTTPClient) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithFileSystem overrides the filesystem implementation.
func WithFileSystem(fs FileSystem) Option {
	return func(d *Downloader) {
		d.fs = fs
	}
}

// WithProgressReporter overrides the progress reporter implementation.
func WithProgressReporter(reporter ProgressReporter) Option {
	return func(d *Downloader) {
		d.reporter = reporter
	}
}

// NewDownloader constructs a Downloader with OS filesystem access and a
// plain HTTP client. The client timeout covers the whole transfer.
func NewDownloader(log logger.Logger, opts ...Option) *Downloader {
	d := &Downloader{
		client:   &http.Client{Timeout: 300 * time.Second},
		fs:       OSFileSystem{},
		reporter: NoopProgressReporter{},
		logger:   log,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if d.logger == nil {
		d.logger = logger.NewStandardLogger()
	}
	if d.fs == nil {
		d.fs = OSFileSystem{}
	}
	if d.reporter == nil {
		d.reporter = NoopProgressReporter{}
	}

	return d
}

// Result reports where a fetch landed and whether the transfer was skipped.
type Result struct {
	Path    string
	Skipped bool
	Size    int64
}

// Fetch downloads url into destDir, naming the file explicitName when
// provided. An existing local file that still satisfies the response
// headers is reported as success without re-downloading. On streaming
// failure the partial file is removed before the error is returned.
func (d *Downloader) Fetch(ctx context.Context, url, destDir, explicitName string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, apperrors.NetworkError(apperrors.CodeDownloadFailed, "failed to create download request", err).
			WithModule("download").
			WithOperation("Fetch").
			WithField("url", url)
	}
	req.Header.Set("User-Agent", "ghfetch/1.0 (Go release fetcher)")

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, apperrors.NetworkError(apperrors.CodeDownloadFailed, "download request failed", err).
			WithModule("download").
			WithOperation("Fetch").
			WithField("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, apperrors.NetworkError(apperrors.CodeDownloadFailed, "download failed with unexpected status", nil).
			WithModule("download").
			WithOperation("Fetch").
			WithFields(apperrors.Metadata{
				"url":    url,
				"status": resp.StatusCode,
			})
	}

	fileName := fileNameFromResponse(explicitName, resp)
	if fileName == "" {
		return Result{}, apperrors.FileNameError(apperrors.CodeUnknownFileName, "unknown file name", nil).
			WithModule("download").
			WithOperation("Fetch").
			WithField("url", url)
	}

	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return Result{}, apperrors.SystemError(apperrors.CodeIOFailure, "failed to create destination folder", err).
			WithModule("download").
			WithOperation("Fetch").
			WithField("dir", destDir)
	}

	localPath := filepath.Join(destDir, fileName)

	if size, ok := d.satisfiedLocally(localPath, resp); ok {
		d.logger.Debug("%s is up to date, skipping download", localPath)
		return Result{Path: localPath, Skipped: true, Size: size}, nil
	}

	written, err := d.writeFile(localPath, fileName, resp)
	if err != nil {
		return Result{}, err
	}

	return Result{Path: localPath, Size: written}, nil
}

// satisfiedLocally reports whether the existing file at localPath already
// satisfies the response: it exists, its length equals the declared
// content length, the response declares a last-modified timestamp, and
// the local write time is strictly later than that timestamp.
func (d *Downloader) satisfiedLocally(localPath string, resp *http.Response) (int64, bool) {
	info, err := d.fs.Stat(localPath)
	if err != nil {
		return 0, false
	}

	if resp.ContentLength < 0 || info.Size() != resp.ContentLength {
		return 0, false
	}

	lastModified, err := http.ParseTime(resp.Header.Get("Last-Modified"))
	if err != nil {
		return 0, false
	}

	if !info.ModTime().After(lastModified) {
		return 0, false
	}

	return info.Size(), true
}

func (d *Downloader) writeFile(localPath, fileName string, resp *http.Response) (int64, error) {
	file, err := d.fs.Create(localPath)
	if err != nil {
		return 0, apperrors.SystemError(apperrors.CodeIOFailure, "failed to create local file", err).
			WithModule("download").
			WithOperation("writeFile").
			WithField("path", localPath)
	}

	reader := newProgressReader(resp.Body, resp.ContentLength, d.reporter, fileName)

	buf := make([]byte, copyBufferSize)
	written, err := io.CopyBuffer(file, reader, buf)
	if err != nil {
		_ = file.Close()
		d.removePartial(localPath)
		return 0, apperrors.SystemError(apperrors.CodeIOFailure, "failed to stream file to disk", err).
			WithModule("download").
			WithOperation("writeFile").
			WithField("path", localPath)
	}

	if err := file.Close(); err != nil {
		d.removePartial(localPath)
		return 0, apperrors.SystemError(apperrors.CodeIOFailure, "failed to finalize local file", err).
			WithModule("download").
			WithOperation("writeFile").
			WithField("path", localPath)
	}

	reader.finish()
	return written, nil
}

func (d *Downloader) removePartial(localPath string) {
	if err := d.fs.Remove(localPath); err != nil {
		d.logger.Warn("Failed to remove partial file %s: %v", localPath, err)
	}
}
