// Package remix wires the tokenizer, model, sampler and composer together.
package remix

import (
	"fmt"
	"image"
	"iter"
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/markovangelo/internal/compose"
	"github.com/jmylchreest/markovangelo/internal/markov"
)

// DefaultNgramSize is the n-gram size used when none is configured.
const DefaultNgramSize = 4

// Option configures Remix.
type Option func(*options)

type options struct {
	rnd            markov.RandomSource
	logger         hclog.Logger
	legacyBoundary bool
	modelHook      func(*markov.Model)
}

// WithRand sets the random source used for sampling.
func WithRand(rnd markov.RandomSource) Option {
	return func(o *options) {
		o.rnd = rnd
	}
}

// WithSeed samples from a PCG source seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rnd = rand.New(rand.NewPCG(uint64(seed), uint64(seed))) // #nosec G404 G115 -- reproducible sampling, not security sensitive
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLegacyBoundary seeds contexts with black instead of a dedicated marker.
func WithLegacyBoundary(enabled bool) Option {
	return func(o *options) {
		o.legacyBoundary = enabled
	}
}

// WithModelHook is called with the trained model before sampling starts.
func WithModelHook(fn func(*markov.Model)) Option {
	return func(o *options) {
		o.modelHook = fn
	}
}

// Remix trains a model of n-gram size ngramSize on the sources and composes a
// canvas of the given size from it.
//
// The canvas is returned uncropped; callers that want the finished image pass
// it through compose.Crop, which leaves (size.X-2) x (size.Y-2) pixels.
func Remix(sources []markov.Grid, ngramSize int, size image.Point, opts ...Option) (*image.RGBA, error) {
	o := options{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if ngramSize < 2 {
		return nil, fmt.Errorf("%w: got %d", markov.ErrInvalidNgramSize, ngramSize)
	}
	if size.X < 1 || size.Y < 1 {
		return nil, fmt.Errorf("%w: %dx%d", compose.ErrInvalidSize, size.X, size.Y)
	}

	model, err := Train(sources, ngramSize, o.legacyBoundary)
	if err != nil {
		return nil, err
	}
	o.logger.Info("model built", "images", len(sources), "contexts", model.Len(), "tokens", model.Tokens())

	if o.modelHook != nil {
		o.modelHook(model)
	}

	sampler := markov.NewSampler(model, o.rnd)
	canvas, err := compose.Compose(size.X, size.Y, sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to compose canvas: %w", err)
	}
	o.logger.Debug("canvas composed", "width", size.X, "height", size.Y, "resets", sampler.Resets())

	return canvas, nil
}

// Train builds the model for the given sources without sampling from it.
// The sources' token streams are concatenated in order.
func Train(sources []markov.Grid, ngramSize int, legacyBoundary bool) (*markov.Model, error) {
	streams := make([]iter.Seq[markov.Token], 0, len(sources))
	for _, src := range sources {
		streams = append(streams, markov.Tokenize(src))
	}

	buildOpts := []markov.BuildOption{markov.WithSources(len(sources))}
	if legacyBoundary {
		buildOpts = append(buildOpts, markov.WithLegacyBoundary())
	}

	model, err := markov.Build(markov.Concat(streams...), ngramSize, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}
	return model, nil
}
