package cli

import (
	"context"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/markovangelo/internal/colour"
	imgio "github.com/jmylchreest/markovangelo/internal/image"
	"github.com/jmylchreest/markovangelo/internal/markov"
	"github.com/jmylchreest/markovangelo/internal/remix"
	"github.com/jmylchreest/markovangelo/internal/util/imagecache"
)

// sourceOptions are the flags shared by every command that trains a model.
type sourceOptions struct {
	ngramSize      int
	colours        int
	algorithm      string
	dither         bool
	legacyBoundary bool
	cache          bool
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.ngramSize, "ngram-size", "n", remix.DefaultNgramSize, "n-gram size (>= 2)")
	cmd.Flags().IntVarP(&o.colours, "colours", "c", colour.MaxColours, "palette size for source quantisation (1-256)")
	cmd.Flags().StringVarP(&o.algorithm, "algorithm", "a", string(colour.AlgorithmKMeans), "quantiser (kmeans, lab, dominant, none); none keeps every source colour and ignores --colours")
	cmd.Flags().BoolVar(&o.dither, "dither", false, "Floyd-Steinberg dither when mapping sources to the palette")
	cmd.Flags().BoolVar(&o.legacyBoundary, "legacy-boundary", false, "treat black as the boundary marker")
	cmd.Flags().BoolVar(&o.cache, "cache", false, "keep downloaded URL sources in the user cache directory")
}

// validate checks the options that can be rejected before any image is read.
func (o *sourceOptions) validate() error {
	if o.ngramSize < 2 {
		return fmt.Errorf("%w: got %d", markov.ErrInvalidNgramSize, o.ngramSize)
	}
	if err := o.quantizer(0).Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (o *sourceOptions) quantizer(seed int64) colour.QuantizerConfig {
	return colour.QuantizerConfig{
		Algorithm:  colour.Algorithm(o.algorithm),
		ColorCount: o.colours,
		Dither:     o.dither,
		Seed:       seed,
	}
}

func (o *sourceOptions) loader() (*imgio.SmartLoader, error) {
	loader := imgio.NewSmartLoader()
	if o.cache {
		dir, err := imagecache.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		loader.CacheDir = dir
	}
	return loader, nil
}

// loadSources expands args into source locations and decodes each one.
func loadSources(ctx context.Context, loader imgio.Loader, args []string, logger hclog.Logger) ([]string, []image.Image, error) {
	paths, err := imgio.ExpandSources(args)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid source: %w", err)
	}

	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := loader.Load(ctx, p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load image: %w", err)
		}
		b := img.Bounds()
		logger.Debug("source loaded", "path", p, "width", b.Dx(), "height", b.Dy())
		images = append(images, img)
	}
	return paths, images, nil
}

// quantizeSources reduces every image to the configured palette and converts
// it to a token grid.
func quantizeSources(images []image.Image, cfg colour.QuantizerConfig, logger hclog.Logger) ([]markov.Grid, error) {
	if cfg.Algorithm == colour.AlgorithmNone {
		logger.Warn("quantisation disabled; every distinct source colour becomes its own token")
	}
	grids := make([]markov.Grid, 0, len(images))
	for i, img := range images {
		q, err := colour.Quantize(img, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to quantise source %d: %w", i+1, err)
		}
		grid := markov.GridFromImage(q)
		if w, h := grid.Size(); w < 3 || h < 3 {
			logger.Warn("source too small to contribute tokens", "index", i+1, "width", w, "height", h)
		}
		grids = append(grids, grid)
	}
	logger.Debug("sources quantised", "algorithm", cfg.Algorithm, "colours", cfg.ColorCount, "dither", cfg.Dither)
	return grids, nil
}
