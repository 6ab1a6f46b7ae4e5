// ABOUTME: Attachment downloader for resource library entries
// ABOUTME: Downloads linked files from URLs and caches them in a temp directory
package community

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// AttachmentDownloader fetches resource files to local disk so they
// can be opened offline. Files are cached by URL hash for the session.
type AttachmentDownloader struct {
	cacheDir string
	client   *http.Client
}

// NewAttachmentDownloader creates a downloader with a temp cache dir.
func NewAttachmentDownloader() (*AttachmentDownloader, error) {
	cacheDir := filepath.Join(os.TempDir(), "studyhall-attachments")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &AttachmentDownloader{
		cacheDir: cacheDir,
		client:   &http.Client{},
	}, nil
}

// Download fetches the resource's linked file and returns the local
// path. A second download of the same URL is served from the cache.
func (d *AttachmentDownloader) Download(r Resource) (string, error) {
	if r.URL == "" {
		return "", nil
	}

	hash := sha256.Sum256([]byte(r.URL))
	filename := fmt.Sprintf("%x%s", hash[:8], getExtension(r.URL))
	cachePath := filepath.Join(d.cacheDir, filename)

	if _, err := os.Stat(cachePath); err == nil {
		log.Printf("Attachment cache hit: %s", cachePath)
		return cachePath, nil
	}

	log.Printf("Downloading attachment: %s", r.URL)
	resp, err := d.client.Get(r.URL)
	if err != nil {
		return "", fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("attachment download failed: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(cachePath)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(cachePath)
		return "", fmt.Errorf("failed to save attachment: %w", err)
	}

	log.Printf("Attachment saved: %s", cachePath)
	return cachePath, nil
}

// getExtension extracts file extension from URL
func getExtension(url string) string {
	// Remove query string
	url = strings.Split(url, "?")[0]

	ext := filepath.Ext(url)
	if ext == "" {
		ext = ".bin"
	}

	return ext
}

// Cleanup removes the cached attachments.
func (d *AttachmentDownloader) Cleanup() error {
	return os.RemoveAll(d.cacheDir)
}
