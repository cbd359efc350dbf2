package colour

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// LabExtractor clusters pixels in CIE L*a*b* space, where Euclidean distance
// tracks perceived colour difference more closely than in RGB.
//
// Cluster initialisation is randomised inside muesli/kmeans and cannot be
// seeded, so palettes may differ between runs.
type LabExtractor struct {
	maxSamples int
}

// NewLabExtractor creates a new LabExtractor with default settings.
func NewLabExtractor() *LabExtractor {
	return &LabExtractor{maxSamples: 12000}
}

// Extract implements Extractor.
func (e *LabExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 || count > MaxColours {
		return nil, fmt.Errorf("color count must be between 1 and %d, got %d", MaxColours, count)
	}

	b := img.Bounds()
	step := 1
	if b.Dx()*b.Dy() > e.maxSamples {
		step = int(math.Sqrt(float64(b.Dx()*b.Dy())/float64(e.maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(b.Dx()*b.Dy(), e.maxSamples))
	unique := make(map[RGB]color.Color)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent.
				continue
			}
			l, a, bb := c.Lab()
			dataset = append(dataset, clusters.Coordinates{l, a, bb})
			rgb := ToRGB(img.At(x, y))
			unique[rgb] = color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
		}
	}
	if len(dataset) == 0 {
		return nil, fmt.Errorf("no opaque pixels found in image")
	}

	if count >= len(unique) {
		colors := make([]color.Color, 0, len(unique))
		for _, c := range unique {
			colors = append(colors, c)
		}
		slices.SortFunc(colors, func(a, b color.Color) int {
			return cmp.Compare(ToRGB(a).Hex(), ToRGB(b).Hex())
		})
		return NewPalette(colors), nil
	}

	cc, err := kmeans.New().Partition(dataset, count)
	if err != nil {
		return nil, fmt.Errorf("failed to partition pixels: %w", err)
	}

	// Most populated clusters first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return cmp.Compare(len(b.Observations), len(a.Observations))
	})

	colors := make([]color.Color, 0, len(cc))
	weights := make([]float64, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Lab(c.Center[0], c.Center[1], c.Center[2]).Clamped()
		r, g, bl := col.RGB255()
		colors = append(colors, color.RGBA{R: r, G: g, B: bl, A: 255})
		weights = append(weights, float64(len(c.Observations))/float64(len(dataset)))
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("k-means produced no clusters")
	}

	return NewPaletteWithWeights(colors, weights), nil
}
