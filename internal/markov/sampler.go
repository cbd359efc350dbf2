package markov

import (
	"math/rand/v2"
)

// RandomSource supplies the randomness for a Sampler.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// IntN returns a uniform value in [0, n). It may panic if n <= 0.
	IntN(n int) int
}

// Sampler walks a Model and produces an unbounded stream of tokens.
// It is stateful and not safe for concurrent use; construct a new one to start over.
type Sampler struct {
	model  *Model
	rnd    RandomSource
	ctx    *window
	resets int
}

// NewSampler creates a sampler positioned at the model's initial context.
// A nil rnd is replaced by a randomly seeded source.
func NewSampler(m *Model, rnd RandomSource) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 -- sampling is not security sensitive
	}
	s := &Sampler{model: m, rnd: rnd}
	if m != nil {
		s.ctx = newWindow(m.n-1, m.boundary)
	}
	return s
}

// Next draws the next token.
//
// If the current context was never seen during training the sampler silently
// falls back to the initial context and retries. ErrUnsampleableModel is
// returned only when the initial context is missing too.
func (s *Sampler) Next() (Token, error) {
	if s.model == nil || len(s.model.table) == 0 {
		return 0, ErrUnsampleableModel
	}

	succ, ok := s.model.table[string(s.ctx.buf)]
	if !ok {
		s.ctx.reset(s.model.boundary)
		s.resets++
		succ, ok = s.model.table[string(s.ctx.buf)]
		if !ok {
			return 0, ErrUnsampleableModel
		}
	}

	t := succ.pick(s.rnd)
	s.ctx.push(t.Symbol())
	return t, nil
}

// Take draws exactly k tokens.
func (s *Sampler) Take(k int) ([]Token, error) {
	out := make([]Token, 0, max(k, 0))
	for range k {
		t, err := s.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Resets returns how many times the sampler drifted into an unseen context
// and fell back to the initial context.
func (s *Sampler) Resets() int {
	return s.resets
}

// Context returns the current context.
func (s *Sampler) Context() Context {
	if s.ctx == nil {
		return ""
	}
	return Context(s.ctx.buf)
}
