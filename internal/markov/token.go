// Package markov provides the n-gram colour model used to remix images.
//
// Source images are turned into a stream of adjacency tokens (Tokenize), the
// stream is folded into a context -> successor frequency table (Build), and a
// Sampler walks that table to produce an unbounded stream of colours.
package markov

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Token is a quantised pixel colour packed as 0xRRGGBB.
// Ordering tokens numerically is the same as ordering them by (R, G, B).
type Token uint32

// NewToken packs the given channel values into a Token.
func NewToken(r, g, b uint8) Token {
	return Token(r)<<16 | Token(g)<<8 | Token(b)
}

// TokenOf converts any colour to a Token, discarding alpha.
func TokenOf(c color.Color) Token {
	r, g, b, _ := c.RGBA()
	return NewToken(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB returns the channel values of the token.
func (t Token) RGB() (r, g, b uint8) {
	return uint8(t >> 16), uint8(t >> 8), uint8(t)
}

// RGBA returns the token as an opaque colour.
func (t Token) RGBA() color.RGBA {
	r, g, b := t.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the token as a hex string (e.g., "#1a2b3c").
func (t Token) Hex() string {
	return fmt.Sprintf("#%06x", uint32(t&0xffffff))
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return t.Hex()
}

// Symbol is one slot of a Context: either a Token or the Boundary marker.
type Symbol uint32

// Boundary seeds the initial context. Its value lies outside the 24 bits a
// Token can occupy, so no colour ever compares equal to it.
const Boundary Symbol = 1 << 24

// symbolWidth is the encoded size of one Symbol inside a Context key.
const symbolWidth = 4

// Symbol returns the context symbol for the token.
func (t Token) Symbol() Symbol {
	return Symbol(t & 0xffffff)
}

// Token returns the colour held by the symbol, or false for Boundary.
func (s Symbol) Token() (Token, bool) {
	if s == Boundary {
		return 0, false
	}
	return Token(s), true
}

// String implements fmt.Stringer.
func (s Symbol) String() string {
	if t, ok := s.Token(); ok {
		return t.Hex()
	}
	return "<boundary>"
}

// Context is the window of the N-1 most recent symbols, used as a model key.
// The zero value is an empty context.
type Context string

// ContextOf builds a Context from the given symbols, oldest first.
func ContextOf(symbols ...Symbol) Context {
	buf := make([]byte, len(symbols)*symbolWidth)
	for i, s := range symbols {
		binary.BigEndian.PutUint32(buf[i*symbolWidth:], uint32(s))
	}
	return Context(buf)
}

// Len returns the number of symbols in the context.
func (c Context) Len() int {
	return len(c) / symbolWidth
}

// Symbols decodes the context, oldest symbol first.
func (c Context) Symbols() []Symbol {
	out := make([]Symbol, c.Len())
	for i := range out {
		out[i] = Symbol(binary.BigEndian.Uint32([]byte(c[i*symbolWidth : (i+1)*symbolWidth])))
	}
	return out
}

// String implements fmt.Stringer.
func (c Context) String() string {
	return fmt.Sprint(c.Symbols())
}

// window is the mutable sliding context shared by the builder and sampler.
type window struct {
	buf []byte
}

func newWindow(size int, fill Symbol) *window {
	w := &window{buf: make([]byte, size*symbolWidth)}
	w.reset(fill)
	return w
}

// reset fills every slot with the given symbol.
func (w *window) reset(fill Symbol) {
	for i := 0; i < len(w.buf); i += symbolWidth {
		binary.BigEndian.PutUint32(w.buf[i:], uint32(fill))
	}
}

// push drops the oldest symbol and appends s.
func (w *window) push(s Symbol) {
	copy(w.buf, w.buf[symbolWidth:])
	binary.BigEndian.PutUint32(w.buf[len(w.buf)-symbolWidth:], uint32(s))
}
