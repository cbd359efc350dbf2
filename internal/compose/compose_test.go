package compose

import (
	"errors"
	"image"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/markovangelo/internal/markov"
)

// countingSource yields distinct tokens of decreasing value, so stream order
// and value order differ.
type countingSource struct {
	calls int
}

func (s *countingSource) Next() (markov.Token, error) {
	s.calls++
	return markov.NewToken(uint8(255-s.calls%256), 0, uint8(s.calls/256)), nil
}

type failingSource struct {
	after int
	calls int
}

var errDrained = errors.New("drained")

func (s *failingSource) Next() (markov.Token, error) {
	s.calls++
	if s.calls > s.after {
		return 0, errDrained
	}
	return markov.NewToken(1, 2, 3), nil
}

func distance(pt image.Point, fx, fy float64) float64 {
	return math.Hypot(float64(pt.X)-fx, float64(pt.Y)-fy)
}

func TestFocalPoint(t *testing.T) {
	fx, fy := FocalPoint(5, 5)
	assert.InDelta(t, 3.3, fx, 1e-9)
	assert.InDelta(t, 2.5, fy, 1e-9)
}

func TestCoordinatesFiveByFive(t *testing.T) {
	coords := Coordinates(5, 5)
	require.Len(t, coords, 25)

	fx, fy := FocalPoint(5, 5)
	d32 := distance(image.Pt(3, 2), fx, fy)
	d33 := distance(image.Pt(3, 3), fx, fy)

	switch {
	case d32 < d33:
		assert.Equal(t, image.Pt(3, 2), coords[0])
	case d33 < d32:
		assert.Equal(t, image.Pt(3, 3), coords[0])
	default:
		// Equidistant: column-major enumeration visits (3,2) first.
		assert.Equal(t, image.Pt(3, 2), coords[0])
		assert.Equal(t, image.Pt(3, 3), coords[1])
	}
}

func TestCoordinatesStableOrder(t *testing.T) {
	for _, size := range []image.Point{image.Pt(5, 5), image.Pt(7, 3), image.Pt(1, 9), image.Pt(12, 12)} {
		coords := Coordinates(size.X, size.Y)
		require.Len(t, coords, size.X*size.Y)
		assert.Equal(t, coords, Coordinates(size.X, size.Y), "order must be reproducible")

		fx, fy := FocalPoint(size.X, size.Y)
		enum := func(pt image.Point) int { return pt.X*size.Y + pt.Y }
		seen := make(map[image.Point]bool, len(coords))
		for i, pt := range coords {
			assert.False(t, seen[pt], "duplicate %v", pt)
			seen[pt] = true
			if i == 0 {
				continue
			}
			prev := coords[i-1]
			dp, dc := distance(prev, fx, fy), distance(pt, fx, fy)
			require.LessOrEqual(t, dp, dc, "%v before %v", prev, pt)
			if dp == dc {
				assert.Less(t, enum(prev), enum(pt), "tie %v/%v out of enumeration order", prev, pt)
			}
		}
	}
}

func TestComposeDrawsExactly(t *testing.T) {
	for _, size := range []image.Point{image.Pt(1, 1), image.Pt(1, 5), image.Pt(5, 1), image.Pt(6, 6), image.Pt(13, 7)} {
		src := &countingSource{}
		canvas, err := Compose(size.X, size.Y, src)
		require.NoError(t, err)
		assert.Equal(t, size.X*size.Y, src.calls, "size %v", size)
		assert.Equal(t, image.Rect(0, 0, size.X, size.Y), canvas.Bounds())
	}
}

func TestComposePlacesSortedColours(t *testing.T) {
	src := &countingSource{}
	canvas, err := Compose(6, 4, src)
	require.NoError(t, err)

	// Replay the stream to learn what was drawn.
	replay := &countingSource{}
	drawn := make([]markov.Token, 24)
	for i := range drawn {
		drawn[i], _ = replay.Next()
	}
	slices.Sort(drawn)

	for i, pt := range Coordinates(6, 4) {
		got := markov.TokenOf(canvas.RGBAAt(pt.X, pt.Y))
		assert.Equal(t, drawn[i], got, "cell %v", pt)
		assert.Equal(t, uint8(255), canvas.RGBAAt(pt.X, pt.Y).A)
	}
}

func TestComposeErrors(t *testing.T) {
	_, err := Compose(0, 5, &countingSource{})
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = Compose(5, -1, &countingSource{})
	require.ErrorIs(t, err, ErrInvalidSize)

	src := &failingSource{after: 3}
	_, err = Compose(2, 2, src)
	require.ErrorIs(t, err, errDrained)
	assert.Equal(t, 4, src.calls)
}

func TestCrop(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			canvas.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	out := Crop(canvas)
	require.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.RGBA{R: 1, G: 1, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 2, G: 1, A: 255}, out.RGBAAt(1, 0))
}

func TestCropTooSmall(t *testing.T) {
	for _, size := range []image.Point{image.Pt(2, 2), image.Pt(1, 10), image.Pt(10, 2)} {
		out := Crop(image.NewRGBA(image.Rect(0, 0, size.X, size.Y)))
		assert.True(t, out.Bounds().Empty(), "size %v", size)
	}
}
