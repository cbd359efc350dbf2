// Package viewer opens remixed images in the desktop image viewer.
package viewer

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	imgio "github.com/jmylchreest/markovangelo/internal/image"
)

// EnvViewer names the environment variable that overrides the viewer command.
// Its value is split on whitespace; the image path is appended as the last argument.
const EnvViewer = "MARKOVANGELO_VIEWER"

// Viewer launches an external program to display an image file.
type Viewer struct {
	runner  Runner
	command string
	goos    string
	logger  hclog.Logger
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(v *Viewer) { v.runner = r }
}

// WithCommand sets the viewer command line, as MARKOVANGELO_VIEWER would.
func WithCommand(cmd string) Option {
	return func(v *Viewer) { v.command = cmd }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// withGOOS overrides the platform used to pick the default command.
func withGOOS(goos string) Option {
	return func(v *Viewer) { v.goos = goos }
}

// New creates a Viewer. Without WithCommand, MARKOVANGELO_VIEWER is consulted
// and then the platform's default opener.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		runner:  NewExecRunner(),
		command: os.Getenv(EnvViewer),
		goos:    runtime.GOOS,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Command returns the program and arguments used to open path.
func (v *Viewer) Command(path string) (string, []string, error) {
	if fields := strings.Fields(v.command); len(fields) > 0 {
		return fields[0], append(fields[1:], path), nil
	}

	switch v.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "explorer", []string{path}, nil
	default:
		return "", nil, fmt.Errorf("no image viewer known for %s; set %s", v.goos, EnvViewer)
	}
}

// Open displays the image file at path.
func (v *Viewer) Open(ctx context.Context, path string) error {
	name, args, err := v.Command(path)
	if err != nil {
		return err
	}

	v.logger.Debug("opening viewer", "command", name, "path", path)
	if _, stderr, err := v.runner.Run(ctx, name, args, nil); err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return fmt.Errorf("viewer %s failed: %w: %s", name, err, msg)
		}
		return fmt.Errorf("viewer %s failed: %w", name, err)
	}
	return nil
}

// Show writes img to a temporary PNG and opens it. The file is left in place
// because most openers return before the viewer has read it; its path is returned.
func (v *Viewer) Show(ctx context.Context, img image.Image) (string, error) {
	f, err := os.CreateTemp("", "markovangelo-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary image: %w", err)
	}
	if err := imgio.WritePNG(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary image: %w", err)
	}

	return f.Name(), v.Open(ctx, f.Name())
}
