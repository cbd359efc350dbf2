package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markovangelo/internal/compose"
	imgio "github.com/jmylchreest/markovangelo/internal/image"
	"github.com/jmylchreest/markovangelo/internal/markov"
	"github.com/jmylchreest/markovangelo/internal/remix"
	"github.com/jmylchreest/markovangelo/internal/seed"
	"github.com/jmylchreest/markovangelo/internal/viewer"
)

type remixOptions struct {
	sourceOptions

	width     int
	height    int
	outputDir string
	show      bool
	seedMode  string
	seed      int64
	stats     bool
}

func newRemixCmd(g *globalOptions) *cobra.Command {
	opts := &remixOptions{}

	cmd := &cobra.Command{
		Use:   "remix [flags] <source>...",
		Short: "Paint a new image from the colour structure of the sources",
		Long: `Train a Markov chain on the colour adjacency of the source images and
paint a new image from it.

Sources may be image files (JPEG, PNG, GIF, WebP), directories (every image
in the directory, sorted by name) or HTTP(S) URLs. The result loses a
one-pixel border, so --width 402 --height 302 produces a 400x300 image.

Without --output-dir the PNG is written to stdout.

Examples:
  # Remix a photo into a 400x300 image
  markovangelo remix --width 402 --height 302 -o out photo.jpg

  # Blend every image in a directory with a longer memory
  markovangelo remix -n 6 --width 802 --height 602 -o out ./wallpapers

  # Reproducible output: same sources and seed give the same image
  markovangelo remix --seed 1234 --width 202 --height 202 photo.png > remix.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				if cmd.Flags().Changed("seed-mode") && opts.seedMode != string(seed.ModeManual) {
					return fmt.Errorf("--seed requires --seed-mode=manual, got %s", opts.seedMode)
				}
				opts.seedMode = string(seed.ModeManual)
			} else if opts.seedMode == string(seed.ModeManual) {
				return fmt.Errorf("--seed-mode=manual requires --seed")
			}
			return runRemix(cmd.Context(), opts, args, remixIO{
				stdout: cmd.OutOrStdout(),
				stats:  cmd.ErrOrStderr(),
				logger: g.logger,
				viewer: viewer.New(viewer.WithLogger(g.logger)),
				now:    time.Now,
			})
		},
	}

	opts.sourceOptions.register(cmd)
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width before border crop (required)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "output height before border crop (required)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "write <unix-seconds>.png into this directory (created if missing)")
	cmd.Flags().BoolVar(&opts.show, "show", false, "open the result in the image viewer")
	cmd.Flags().StringVar(&opts.seedMode, "seed-mode", string(seed.ModeRandom), "seed mode (content, filepath, manual, random); manual needs --seed")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed value; implies --seed-mode=manual")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print model statistics to stderr after building")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

// imageViewer is the part of viewer.Viewer the remix command needs.
type imageViewer interface {
	Open(ctx context.Context, path string) error
	Show(ctx context.Context, img image.Image) (string, error)
}

// remixIO carries everything runRemix talks to outside the pipeline.
type remixIO struct {
	stdout io.Writer
	stats  io.Writer
	logger hclog.Logger
	viewer imageViewer
	now    func() time.Time
}

func runRemix(ctx context.Context, opts *remixOptions, args []string, rio remixIO) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.width < 1 || opts.height < 1 {
		return fmt.Errorf("%w: %dx%d", compose.ErrInvalidSize, opts.width, opts.height)
	}
	if opts.width < 3 || opts.height < 3 {
		return fmt.Errorf("a %dx%d canvas is empty after the border crop; use at least 3x3", opts.width, opts.height)
	}
	mode, err := seed.ParseMode(opts.seedMode)
	if err != nil {
		return err
	}
	// Fail before the expensive work rather than after it.
	if opts.outputDir == "" {
		if f, ok := rio.stdout.(*os.File); ok {
			if err := imgio.EnsureNotTerminal(f); err != nil {
				return err
			}
		}
	}

	loader, err := opts.loader()
	if err != nil {
		return err
	}
	paths, images, err := loadSources(ctx, loader, args, rio.logger)
	if err != nil {
		return err
	}

	seedCfg := seed.Config{Mode: mode}
	if mode == seed.ModeManual {
		seedCfg.Value = &opts.seed
	}
	seedValue, err := seed.Calculate(images, paths, seedCfg)
	if err != nil {
		return fmt.Errorf("failed to calculate seed: %w", err)
	}
	rio.logger.Debug("seed selected", "mode", mode, "seed", seedValue)

	grids, err := quantizeSources(images, opts.quantizer(seedValue), rio.logger)
	if err != nil {
		return err
	}

	remixOpts := []remix.Option{
		remix.WithSeed(seedValue),
		remix.WithLogger(rio.logger),
		remix.WithLegacyBoundary(opts.legacyBoundary),
	}
	if opts.stats {
		remixOpts = append(remixOpts, remix.WithModelHook(func(m *markov.Model) {
			writeStatsText(rio.stats, m.Stats(defaultTop), paths)
		}))
	}

	canvas, err := remix.Remix(grids, opts.ngramSize, image.Pt(opts.width, opts.height), remixOpts...)
	if err != nil {
		return err
	}
	result := compose.Crop(canvas)
	rio.logger.Debug("border cropped", "width", result.Bounds().Dx(), "height", result.Bounds().Dy())

	if opts.outputDir != "" {
		path, err := imgio.SaveToDir(opts.outputDir, result, rio.now())
		if err != nil {
			return err
		}
		rio.logger.Info("image written", "path", path)
		if opts.show {
			return rio.viewer.Open(ctx, path)
		}
		return nil
	}

	if err := imgio.WritePNG(rio.stdout, result); err != nil {
		return err
	}
	if opts.show {
		path, err := rio.viewer.Show(ctx, result)
		if err != nil {
			return err
		}
		rio.logger.Debug("preview written", "path", path)
	}
	return nil
}
