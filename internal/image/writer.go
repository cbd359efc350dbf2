package image

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"
)

// OutputPath returns the file a remix finished at now is saved to:
// <dir>/<unix seconds>.png, made absolute.
func OutputPath(dir string, now time.Time) (string, error) {
	abs, err := filepath.Abs(filepath.Join(dir, fmt.Sprintf("%d.png", now.Unix())))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}
	return abs, nil
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	if err := png.Encode(bw, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	return nil
}

// SaveToDir writes img as a timestamped PNG in dir, creating the directory if
// needed, and returns the absolute path written.
func SaveToDir(dir string, img image.Image, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path, err := OutputPath(dir, now)
	if err != nil {
		return "", err
	}

	file, err := os.Create(path) // #nosec G304 - Output path derived from user-specified directory
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WritePNG(file, img); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return path, nil
}

// EnsureNotTerminal refuses to let binary image data be written to an
// interactive terminal.
func EnsureNotTerminal(f *os.File) error {
	if term.IsTerminal(int(f.Fd())) { // #nosec G115 -- file descriptors fit in int
		return fmt.Errorf("refusing to write PNG data to a terminal; redirect stdout or use --output-dir")
	}
	return nil
}
