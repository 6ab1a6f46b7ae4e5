// ABOUTME: Tests for the attachment downloader
// ABOUTME: Tests download, caching, and error handling
package community

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
)

func TestAttachmentDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("file contents"))
	}))
	defer srv.Close()

	d, err := NewAttachmentDownloader()
	if err != nil {
		t.Fatalf("NewAttachmentDownloader failed: %v", err)
	}
	defer d.Cleanup()

	r := Resource{URL: srv.URL + "/notes.pdf"}

	path, err := d.Download(r)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "file contents" {
		t.Errorf("unexpected contents: %q", data)
	}

	// Second download served from cache.
	again, err := d.Download(r)
	if err != nil {
		t.Fatalf("cached Download failed: %v", err)
	}
	if again != path {
		t.Errorf("expected same cache path, got %s and %s", path, again)
	}
	if hits.Load() != 1 {
		t.Errorf("expected one HTTP fetch, got %d", hits.Load())
	}
}

func TestAttachmentDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d, err := NewAttachmentDownloader()
	if err != nil {
		t.Fatalf("NewAttachmentDownloader failed: %v", err)
	}
	defer d.Cleanup()

	if _, err := d.Download(Resource{URL: srv.URL + "/missing.pdf"}); err == nil {
		t.Error("expected error for HTTP 404")
	}
}

func TestAttachmentEmptyURL(t *testing.T) {
	d, err := NewAttachmentDownloader()
	if err != nil {
		t.Fatalf("NewAttachmentDownloader failed: %v", err)
	}
	defer d.Cleanup()

	path, err := d.Download(Resource{})
	if err != nil {
		t.Fatalf("expected no error for empty URL, got %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path, got %q", path)
	}
}
