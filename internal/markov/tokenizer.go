package markov

import (
	"image"
	"iter"
)

// Grid is a random-access view of a quantised image.
type Grid interface {
	// Size returns the grid dimensions.
	Size() (width, height int)
	// TokenAt returns the token at (x, y), with (0, 0) the top-left cell.
	TokenAt(x, y int) Token
}

// neighbourOffsets lists the neighbours paired with each interior pixel:
// left, upper-left, up, right, lower-right, down. The upper-right and
// lower-left diagonals are deliberately absent.
var neighbourOffsets = [...]image.Point{
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// Tokenize returns the adjacency token stream of a grid.
//
// For every interior pixel (rows top to bottom, columns left to right) and
// each of its six neighbours in neighbourOffsets order, the stream carries the
// pixel's own token followed by the neighbour's token. Border pixels are never
// visited, so grids narrower or shorter than 3 produce nothing.
func Tokenize(g Grid) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		w, h := g.Size()
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				self := g.TokenAt(x, y)
				for _, off := range neighbourOffsets {
					if !yield(self) {
						return
					}
					if !yield(g.TokenAt(x+off.X, y+off.Y)) {
						return
					}
				}
			}
		}
	}
}

// TokenCount returns the number of tokens Tokenize yields for a w x h grid:
// six (pixel, neighbour) pairs per interior pixel.
func TokenCount(w, h int) int {
	if w < 3 || h < 3 {
		return 0
	}
	return 2 * len(neighbourOffsets) * (w - 2) * (h - 2)
}

// Concat joins token streams end to end with no separator between them.
func Concat(seqs ...iter.Seq[Token]) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, seq := range seqs {
			for t := range seq {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// TokenGrid is a Grid backed by a flat, row-major token slice.
type TokenGrid struct {
	Width  int
	Height int
	Tokens []Token
}

// NewTokenGrid creates a grid of the given size filled with fill.
func NewTokenGrid(width, height int, fill Token) *TokenGrid {
	tokens := make([]Token, width*height)
	for i := range tokens {
		tokens[i] = fill
	}
	return &TokenGrid{Width: width, Height: height, Tokens: tokens}
}

// GridFromImage converts a decoded image into a TokenGrid.
// The image bounds may have any origin; the grid always starts at (0, 0).
func GridFromImage(img image.Image) *TokenGrid {
	b := img.Bounds()
	g := &TokenGrid{
		Width:  b.Dx(),
		Height: b.Dy(),
		Tokens: make([]Token, b.Dx()*b.Dy()),
	}

	// Paletted images are the common case after quantisation: convert the
	// palette once instead of every pixel.
	if p, ok := img.(*image.Paletted); ok {
		lut := make([]Token, len(p.Palette))
		for i, c := range p.Palette {
			lut[i] = TokenOf(c)
		}
		for y := range g.Height {
			for x := range g.Width {
				idx := p.ColorIndexAt(b.Min.X+x, b.Min.Y+y)
				if int(idx) < len(lut) {
					g.Tokens[y*g.Width+x] = lut[idx]
				}
			}
		}
		return g
	}

	for y := range g.Height {
		for x := range g.Width {
			g.Tokens[y*g.Width+x] = TokenOf(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return g
}

// Size implements Grid.
func (g *TokenGrid) Size() (int, int) {
	return g.Width, g.Height
}

// TokenAt implements Grid.
func (g *TokenGrid) TokenAt(x, y int) Token {
	return g.Tokens[y*g.Width+x]
}

// Set writes a token at (x, y).
func (g *TokenGrid) Set(x, y int, t Token) {
	g.Tokens[y*g.Width+x] = t
}
