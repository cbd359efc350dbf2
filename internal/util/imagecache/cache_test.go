package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/a.png", ".png"},
		{"https://example.com/a.JPG?size=large", ".jpg"},
		{"https://example.com/download", ".img"},
		{"https://example.com/archive.tar.backup", ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Filename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename(%q) = %q, want suffix %q", tt.url, got, tt.wantExt)
			}
			if len(got) != 32+len(tt.wantExt) {
				t.Errorf("Filename(%q) = %q, want 32 hex chars before extension", tt.url, got)
			}
		})
	}

	if Filename("https://a/x.png") == Filename("https://b/x.png") {
		t.Error("different URLs should not share a cache file")
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	url := srv.URL + "/pic.png"

	first, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if filepath.Dir(first) != dir {
		t.Errorf("cached path %q not in %q", first, dir)
	}
	data, err := os.ReadFile(first)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("cached content = %q, %v", data, err)
	}

	second, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if second != first || hits.Load() != 1 {
		t.Errorf("expected cached reuse, got path %q and %d hits", second, hits.Load())
	}

	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir, Refresh: true}); err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("Refresh should download again, got %d hits", hits.Load())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected one cache entry, found %d", len(entries))
	}
}

func TestDownloadAndCacheRejectsNonHTTP(t *testing.T) {
	if _, err := DownloadAndCache(context.Background(), "/tmp/x.png", CacheOptions{CacheDir: t.TempDir()}); err == nil {
		t.Error("expected error for non-HTTP URL")
	}
}
