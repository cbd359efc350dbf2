// Package seed derives the random seed shared by the quantiser and the chain sampler.
// Deterministic modes make a remix reproducible from its inputs.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"image"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
)

// Mode determines how the seed is generated.
type Mode string

const (
	// ModeContent hashes the pixel content of every source image.
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute paths (or URLs) of every source.
	ModeFilepath Mode = "filepath"
	// ModeManual uses a user-provided seed value.
	ModeManual Mode = "manual"
	// ModeRandom uses a non-deterministic seed (varies each run).
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode   // Seed mode
	Value *int64 // Seed value (only used when Mode is ModeManual)
}

// Calculate determines the seed value based on the seed mode.
// images are required for ModeContent and paths for ModeFilepath; both are
// hashed in the order given, so the same sources in a different order give a
// different seed.
func Calculate(images []image.Image, paths []string, config Config) (int64, error) {
	switch config.Mode {
	case ModeContent:
		if len(images) == 0 {
			return 0, fmt.Errorf("images are required for content-based seed mode")
		}
		return CalculateContentSeed(images...)
	case ModeFilepath:
		if len(paths) == 0 {
			return 0, fmt.Errorf("source paths are required for filepath-based seed mode")
		}
		return CalculateFilepathSeed(paths...)
	case ModeManual:
		if config.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *config.Value, nil
	case ModeRandom:
		return GenerateRandomSeed(), nil
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", config.Mode)
	}
}

// CalculateContentSeed generates a deterministic seed from image content,
// consistent for the same pixels regardless of filename or location.
func CalculateContentSeed(images ...image.Image) (int64, error) {
	if len(images) == 0 {
		return 0, fmt.Errorf("no images to hash")
	}

	hasher := sha256.New()
	for i, img := range images {
		if img == nil {
			return 0, fmt.Errorf("image %d cannot be nil", i)
		}
		hashImage(hasher, img)
	}
	return sumToSeed(hasher), nil
}

func hashImage(hasher hash.Hash, img image.Image) {
	bounds := img.Bounds()

	dimBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(dimBytes[0:4], uint32(bounds.Dx())) // #nosec G115 -- image dimensions are safe to convert
	binary.LittleEndian.PutUint32(dimBytes[4:8], uint32(bounds.Dy())) // #nosec G115 -- image dimensions are safe to convert
	hasher.Write(dimBytes)

	// A sampling grid is enough to tell images apart.
	step := max(bounds.Dx()/100, bounds.Dy()/100, 1)
	pixelBytes := make([]byte, 4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			pixelBytes[0] = byte(r >> 8)
			pixelBytes[1] = byte(g >> 8)
			pixelBytes[2] = byte(b >> 8)
			pixelBytes[3] = byte(a >> 8)
			hasher.Write(pixelBytes)
		}
	}
}

// CalculateFilepathSeed generates a deterministic seed from source locations.
// Local paths are made absolute first; URLs are hashed as-is.
func CalculateFilepathSeed(paths ...string) (int64, error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("no paths to hash")
	}

	hasher := sha256.New()
	for _, p := range paths {
		if p == "" {
			return 0, fmt.Errorf("image path cannot be empty")
		}
		loc := p
		if !isURL(p) {
			if abs, err := filepath.Abs(p); err == nil {
				loc = abs
			}
		}
		hasher.Write([]byte(loc))
		hasher.Write([]byte{0})
	}
	return sumToSeed(hasher), nil
}

func sumToSeed(hasher hash.Hash) int64 {
	sum := hasher.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8])) // #nosec G115 -- hash conversion is safe
}

// GenerateRandomSeed generates a non-deterministic random seed.
func GenerateRandomSeed() int64 {
	return rand.Int64() // #nosec G404 -- seeds are not security sensitive
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
// Returns an error if the string is not a valid mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: content, filepath, manual, random)", s)
}
