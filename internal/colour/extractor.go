package colour

import (
	"fmt"
	"image"
	"math/rand/v2"
	"slices"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	// The count parameter specifies the number of colours to extract.
	Extract(img image.Image, count int) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses k-means clustering in RGB space.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmLab uses k-means clustering in CIE L*a*b* space.
	AlgorithmLab Algorithm = "lab"

	// AlgorithmDominant extracts the most dominant (frequent) colours.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmNone keeps the source colours unchanged.
	AlgorithmNone Algorithm = "none"
)

// MaxColours is the largest palette an image.Paletted can hold.
const MaxColours = 256

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmLab,
		AlgorithmDominant,
		AlgorithmNone,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// NewExtractor creates a new Extractor based on the specified algorithm.
// rnd seeds algorithms that support deterministic output; it may be nil.
func NewExtractor(alg Algorithm, rnd *rand.Rand) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansExtractor(rnd), nil
	case AlgorithmLab:
		return NewLabExtractor(), nil
	case AlgorithmDominant:
		return NewDominantExtractor(), nil
	case AlgorithmNone:
		return nil, fmt.Errorf("algorithm %q does not extract a palette", alg)
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// QuantizerConfig holds configuration for source quantisation.
type QuantizerConfig struct {
	Algorithm  Algorithm
	ColorCount int
	Dither     bool
	Seed       int64
}

// DefaultQuantizerConfig returns the default quantiser configuration:
// 256 colours with k-means and no dithering.
func DefaultQuantizerConfig() QuantizerConfig {
	return QuantizerConfig{
		Algorithm:  AlgorithmKMeans,
		ColorCount: MaxColours,
	}
}

// Validate validates the quantiser configuration.
func (c QuantizerConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.Algorithm == AlgorithmNone {
		return nil
	}
	if c.ColorCount < 1 {
		return fmt.Errorf("color count must be at least 1, got %d", c.ColorCount)
	}
	if c.ColorCount > MaxColours {
		return fmt.Errorf("color count too large: %d (maximum: %d)", c.ColorCount, MaxColours)
	}
	return nil
}
