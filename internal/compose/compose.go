// Package compose places sampled colours onto a canvas.
//
// Placement ignores the order in which colours were sampled. Canvas cells are
// ranked by distance from an off-centre focal point, colours are ranked by
// value, and the two rankings are paired up. The model therefore decides the
// palette and how often each colour appears, while the composer decides the
// radial gradient they are arranged in.
package compose

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/markovangelo/internal/markov"
)

// Focal point, as a fraction of the canvas width and height.
const (
	FocalX = 0.66
	FocalY = 0.5
)

// ErrInvalidSize is returned for a canvas with a non-positive dimension.
var ErrInvalidSize = errors.New("canvas dimensions must be positive")

// TokenSource is an unbounded stream of tokens, such as a *markov.Sampler.
type TokenSource interface {
	Next() (markov.Token, error)
}

// FocalPoint returns the point cells are ranked against.
func FocalPoint(width, height int) (x, y float64) {
	return FocalX * float64(width), FocalY * float64(height)
}

// Coordinates returns every cell of a width x height canvas ordered by
// Euclidean distance from the focal point. Cells are enumerated column by
// column (x outer, y inner) and the sort is stable, so equidistant cells keep
// that order.
func Coordinates(width, height int) []image.Point {
	type ranked struct {
		pt   image.Point
		dist float64
	}

	fx, fy := FocalPoint(width, height)
	cells := make([]ranked, 0, max(width*height, 0))
	for x := range width {
		for y := range height {
			cells = append(cells, ranked{
				pt:   image.Pt(x, y),
				dist: math.Hypot(float64(x)-fx, float64(y)-fy),
			})
		}
	}

	slices.SortStableFunc(cells, func(a, b ranked) int {
		return cmp.Compare(a.dist, b.dist)
	})

	out := make([]image.Point, len(cells))
	for i, c := range cells {
		out[i] = c.pt
	}
	return out
}

// Compose fills a width x height canvas from src.
//
// Exactly width*height tokens are drawn. They are sorted by value and the i-th
// smallest is written to the i-th closest cell. Every cell is written once.
func Compose(width, height int, src TokenSource) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	coords := Coordinates(width, height)

	colours := make([]markov.Token, len(coords))
	for i := range colours {
		t, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to sample colour %d of %d: %w", i+1, len(colours), err)
		}
		colours[i] = t
	}
	slices.Sort(colours)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, pt := range coords {
		canvas.SetRGBA(pt.X, pt.Y, colours[i].RGBA())
	}
	return canvas, nil
}

// Crop removes the outermost one-pixel border of a canvas. The tokenizer never
// sees true neighbourhoods at the edge of a source, so the border is discarded.
// The result starts at (0, 0) and is empty when either dimension is 2 or less.
func Crop(canvas *image.RGBA) *image.RGBA {
	b := canvas.Bounds()
	if b.Dx() <= 2 || b.Dy() <= 2 {
		return image.NewRGBA(image.Rectangle{})
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()-2, b.Dy()-2))
	draw.Draw(dst, dst.Bounds(), canvas, b.Min.Add(image.Pt(1, 1)), draw.Src)
	return dst
}
