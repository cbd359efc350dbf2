package markov

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// linearScanLimit is the fan-out below which successor lookup scans the
// slice instead of keeping an index map.
const linearScanLimit = 16

// Successor is a token observed after a context, with its frequency.
type Successor struct {
	Token Token `json:"token"`
	Count int   `json:"count"`
}

// successors is the frequency table of one context.
// Tokens keep first-seen order so weighted draws are reproducible.
type successors struct {
	tokens []Token
	counts []int
	index  map[Token]int
	total  int
}

func (s *successors) add(t Token) {
	s.total++
	if i, ok := s.find(t); ok {
		s.counts[i]++
		return
	}
	s.tokens = append(s.tokens, t)
	s.counts = append(s.counts, 1)
	switch {
	case s.index != nil:
		s.index[t] = len(s.tokens) - 1
	case len(s.tokens) > linearScanLimit:
		s.index = make(map[Token]int, len(s.tokens))
		for i, tok := range s.tokens {
			s.index[tok] = i
		}
	}
}

func (s *successors) find(t Token) (int, bool) {
	if s.index != nil {
		i, ok := s.index[t]
		return i, ok
	}
	i := slices.Index(s.tokens, t)
	return i, i >= 0
}

// pick draws a token with probability count/total.
func (s *successors) pick(rnd RandomSource) Token {
	r := rnd.IntN(s.total)
	for i, c := range s.counts {
		if r < c {
			return s.tokens[i]
		}
		r -= c
	}
	return s.tokens[len(s.tokens)-1]
}

// Model maps each context seen during training to the tokens that followed it.
// A Model is immutable once Build returns and is safe to share between samplers.
type Model struct {
	n        int
	boundary Symbol
	table    map[string]*successors
	tokens   int
	sources  int
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	boundary Symbol
	sources  int
}

// WithLegacyBoundary seeds contexts with the black token instead of Boundary,
// so the boundary is indistinguishable from a real black pixel.
func WithLegacyBoundary() BuildOption {
	return func(c *buildConfig) {
		c.boundary = NewToken(0, 0, 0).Symbol()
	}
}

// WithSources records how many images contributed to the stream.
// It only affects reporting.
func WithSources(n int) BuildOption {
	return func(c *buildConfig) {
		c.sources = n
	}
}

// Build folds a token stream into a Model with n-gram size n.
//
// The context starts as n-1 boundary symbols. Each token is recorded under the
// current context and then shifted into it; the context left after the final
// token is never recorded.
func Build(tokens iter.Seq[Token], n int, opts ...BuildOption) (*Model, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidNgramSize, n)
	}

	cfg := buildConfig{boundary: Boundary, sources: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Model{
		n:        n,
		boundary: cfg.boundary,
		table:    make(map[string]*successors),
		sources:  cfg.sources,
	}

	ctx := newWindow(n-1, cfg.boundary)
	for t := range tokens {
		succ, ok := m.table[string(ctx.buf)]
		if !ok {
			succ = &successors{}
			m.table[string(ctx.buf)] = succ
		}
		succ.add(t)
		ctx.push(t.Symbol())
		m.tokens++
	}

	if m.tokens == 0 {
		return nil, ErrEmptyTokenStream
	}
	return m, nil
}

// N returns the n-gram size.
func (m *Model) N() int {
	return m.n
}

// Len returns the number of distinct contexts.
func (m *Model) Len() int {
	return len(m.table)
}

// Tokens returns the number of tokens the model was trained on.
func (m *Model) Tokens() int {
	return m.tokens
}

// Sources returns the number of images recorded with WithSources.
func (m *Model) Sources() int {
	return m.sources
}

// Boundary returns the symbol used to seed contexts.
func (m *Model) Boundary() Symbol {
	return m.boundary
}

// InitialContext returns the context made of n-1 boundary symbols.
func (m *Model) InitialContext() Context {
	return Context(newWindow(m.n-1, m.boundary).buf)
}

// Successors returns the tokens observed after c in first-seen order,
// or nil if c was never seen.
func (m *Model) Successors(c Context) []Successor {
	succ, ok := m.table[string(c)]
	if !ok {
		return nil
	}
	out := make([]Successor, len(succ.tokens))
	for i, t := range succ.tokens {
		out[i] = Successor{Token: t, Count: succ.counts[i]}
	}
	return out
}

// Contexts returns every context in the model in byte order.
func (m *Model) Contexts() []Context {
	out := make([]Context, 0, len(m.table))
	for k := range m.table {
		out = append(out, Context(k))
	}
	slices.SortFunc(out, func(a, b Context) int {
		return strings.Compare(string(a), string(b))
	})
	return out
}
