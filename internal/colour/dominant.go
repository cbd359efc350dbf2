package colour

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
)

// DominantExtractor picks the most frequent colours of an image.
type DominantExtractor struct{}

// NewDominantExtractor creates a new DominantExtractor.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{}
}

// Extract implements Extractor.
func (e *DominantExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 || count > MaxColours {
		return nil, fmt.Errorf("color count must be between 1 and %d, got %d", MaxColours, count)
	}

	found := dominantcolor.FindWeight(img, count)
	if len(found) == 0 {
		return nil, fmt.Errorf("no dominant colours found in image")
	}

	colors := make([]color.Color, len(found))
	weights := make([]float64, len(found))
	for i, c := range found {
		colors[i] = color.RGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255}
		weights[i] = c.Weight
	}
	return NewPaletteWithWeights(colors, weights), nil
}
