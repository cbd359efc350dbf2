package colour

import (
	"fmt"
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"
)

// Quantize reduces img to at most cfg.ColorCount colours.
//
// The palette comes from the configured extractor; every pixel is then mapped
// to its nearest palette entry, optionally with Floyd-Steinberg error
// diffusion. With AlgorithmNone the image is returned unchanged. The result
// always has its origin at (0, 0).
func Quantize(img image.Image, cfg QuantizerConfig) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quantizer configuration: %w", err)
	}
	if cfg.Algorithm == AlgorithmNone {
		return img, nil
	}

	rnd := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed))) // #nosec G404 G115 -- reproducible clustering
	extractor, err := NewExtractor(cfg.Algorithm, rnd)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	palette, err := extractor.Extract(img, cfg.ColorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to extract palette: %w", err)
	}

	bounds := img.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette.ColorPalette())

	var drawer draw.Drawer = draw.Src
	if cfg.Dither {
		drawer = draw.FloydSteinberg
	}
	drawer.Draw(dst, dst.Bounds(), img, bounds.Min)

	return dst, nil
}
