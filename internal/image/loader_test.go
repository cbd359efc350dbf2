package image

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.png")
	writeTestPNG(t, path, 5, 4)

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 5, 4) {
		t.Errorf("bounds = %v, want 5x4", img.Bounds())
	}

	notImage := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(notImage, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, bad := range []string{"", filepath.Join(dir, "missing.png"), dir, notImage} {
		if _, err := NewFileLoader().Load(context.Background(), bad); err == nil {
			t.Errorf("Load(%q) expected error", bad)
		}
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	writeTestPNG(t, good, 3, 3)
	bad := filepath.Join(dir, "b.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"image", good, false},
		{"directory", dir, false},
		{"url", "https://example.com/x.png", false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "none.png"), true},
		{"undecodable", bad, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestScanDirectoryForImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.png", "a.PNG", "b.webp", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.webp"),
		filepath.Join(dir, "c.png"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("ScanDirectoryForImages() = %v, want %v", got, want)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("expected error for directory without images")
	}
}

func TestExpandSources(t *testing.T) {
	root := t.TempDir()
	single := filepath.Join(root, "single.png")
	writeTestPNG(t, single, 3, 3)

	set := filepath.Join(root, "set")
	if err := os.Mkdir(set, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(set, "2.png"), 3, 3)
	writeTestPNG(t, filepath.Join(set, "1.png"), 3, 3)

	got, err := ExpandSources([]string{single, set, "https://example.com/x.png"})
	if err != nil {
		t.Fatalf("ExpandSources() error = %v", err)
	}
	want := []string{
		single,
		filepath.Join(set, "1.png"),
		filepath.Join(set, "2.png"),
		"https://example.com/x.png",
	}
	if !slices.Equal(got, want) {
		t.Errorf("ExpandSources() = %v, want %v", got, want)
	}

	if _, err := ExpandSources(nil); err == nil {
		t.Error("expected error for no sources")
	}
	if _, err := ExpandSources([]string{filepath.Join(root, "gone.png")}); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestSmartLoaderURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remote.png")
	writeTestPNG(t, path, 6, 2)
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	loader := NewSmartLoader()
	img, err := loader.Load(context.Background(), srv.URL+"/remote.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v, want 6x2", img.Bounds())
	}

	loader.CacheDir = t.TempDir()
	for range 2 {
		if _, err := loader.Load(context.Background(), srv.URL+"/remote.png"); err != nil {
			t.Fatalf("Load() with cache error = %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("expected 2 requests (one uncached, one cached), got %d", n)
	}
}
