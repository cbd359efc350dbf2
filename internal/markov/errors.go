package markov

import "errors"

var (
	// ErrInvalidNgramSize is returned when the n-gram size is below 2.
	ErrInvalidNgramSize = errors.New("ngram size must be at least 2")

	// ErrEmptyTokenStream is returned when no tokens were available to train on,
	// typically because every source is smaller than 3x3.
	ErrEmptyTokenStream = errors.New("empty token stream")

	// ErrUnsampleableModel is returned when the model has no entry for the
	// boundary-seeded initial context.
	ErrUnsampleableModel = errors.New("model has no entry for the initial context")
)
