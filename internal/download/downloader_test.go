package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "ghfetch/internal/errors"
	"ghfetch/internal/logger"
)

func newTestDownloader(t *testing.T, srv *httptest.Server) *Downloader {
	t.Helper()
	return NewDownloader(logger.NewMockLogger(), WithHTTPClient(srv.Client()))
}

func TestFetchWritesFile(t *testing.T) {
	body := "release asset payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="tool.zip"`)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	d := newTestDownloader(t, srv)

	result, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(dest, "tool.zip")
	if result.Path != wantPath {
		t.Errorf("path = %q, want %q", result.Path, wantPath)
	}
	if result.Skipped {
		t.Error("expected a fresh write, got skip")
	}
	if result.Size != int64(len(body)) {
		t.Errorf("size = %d, want %d", result.Size, len(body))
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if string(data) != body {
		t.Errorf("written bytes = %q, want %q", data, body)
	}
}

func TestFetchSkipsFreshLocalFile(t *testing.T) {
	body := "hello world"
	lastModified := time.Now().Add(-time.Hour).UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="X.zip"`)
		w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	existing := filepath.Join(dest, "X.zip")
	// Same length as the response body but different content, so an
	// accidental rewrite is detectable.
	if err := os.WriteFile(existing, []byte("HELLO WORLD"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newTestDownloader(t, srv)

	result, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Skipped {
		t.Fatal("expected skip, got fresh write")
	}
	if result.Path != existing {
		t.Errorf("path = %q, want %q", result.Path, existing)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "HELLO WORLD" {
		t.Errorf("existing file was rewritten: %q", data)
	}
}

func TestFetchDoesNotSkipWithoutLastModified(t *testing.T) {
	body := "hello world"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="X.zip"`)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	existing := filepath.Join(dest, "X.zip")
	if err := os.WriteFile(existing, []byte("HELLO WORLD"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newTestDownloader(t, srv)

	result, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped {
		t.Fatal("skip requires a last-modified header")
	}

	data, _ := os.ReadFile(existing)
	if string(data) != body {
		t.Errorf("file = %q, want overwritten content %q", data, body)
	}
}

func TestFetchDoesNotSkipOnSizeMismatch(t *testing.T) {
	body := "hello world"
	lastModified := time.Now().Add(-time.Hour).UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="X.zip"`)
		w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	existing := filepath.Join(dest, "X.zip")
	if err := os.WriteFile(existing, []byte("short"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := newTestDownloader(t, srv)

	result, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped {
		t.Fatal("size mismatch must force a re-download")
	}
}

func TestFetchSecondInvocationSkips(t *testing.T) {
	body := "idempotent payload"
	lastModified := time.Now().Add(-time.Hour).UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="tool.tar.gz"`)
		w.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	dest := t.TempDir()
	d := newTestDownloader(t, srv)

	first, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.Skipped {
		t.Fatal("first fetch must write")
	}

	second, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.Skipped {
		t.Fatal("second fetch with an unchanged remote must skip")
	}
	if second.Path != first.Path {
		t.Errorf("paths differ: %q vs %q", second.Path, first.Path)
	}
}

func TestFetchRemovesPartialFileOnTruncation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="big.bin"`)
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte("only a fragment"))
	}))
	defer srv.Close()

	dest := t.TempDir()
	d := newTestDownloader(t, srv)

	_, err := d.Fetch(context.Background(), srv.URL+"/download", dest, "")
	if err == nil {
		t.Fatal("expected an error for a truncated stream")
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodeIOFailure {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeIOFailure)
	}

	if _, statErr := os.Stat(filepath.Join(dest, "big.bin")); !os.IsNotExist(statErr) {
		t.Error("partial file was left behind")
	}
}

func TestFetchUnknownFileName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data")
	}))
	defer srv.Close()

	d := newTestDownloader(t, srv)

	// Request the server root so the URL path yields no segment either.
	_, err := d.Fetch(context.Background(), srv.URL+"/", t.TempDir(), "")
	if err == nil {
		t.Fatal("expected unknown file name error")
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodeUnknownFileName {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeUnknownFileName)
	}
}

func TestFetchExplicitNameWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="from-header.zip"`)
		fmt.Fprint(w, "data")
	}))
	defer srv.Close()

	dest := t.TempDir()
	d := newTestDownloader(t, srv)

	result, err := d.Fetch(context.Background(), srv.URL+"/from-url.zip", dest, "explicit.zip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dest, "explicit.zip"); result.Path != want {
		t.Errorf("path = %q, want %q", result.Path, want)
	}
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	d := newTestDownloader(t, srv)

	_, err := d.Fetch(context.Background(), srv.URL+"/missing.zip", t.TempDir(), "")
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if code := apperrors.CodeOf(err); code != apperrors.CodeDownloadFailed {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeDownloadFailed)
	}
}
