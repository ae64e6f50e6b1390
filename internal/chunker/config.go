package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidThresholds is returned by Thresholds.Validate.
var ErrInvalidThresholds = errors.New("invalid chunk thresholds")

// Thresholds controls segmentation sizes. All sizes are in characters.
type Thresholds struct {
	MinChunkSize       int `json:"min_chunk_size"`       // Chunks below this are merged into neighbours.
	MaxChunkSize       int `json:"max_chunk_size"`       // Soft ceiling for structural chunks.
	RuleSplitThreshold int `json:"rule_split_threshold"` // Units longer than this are split by Rules.
	FallbackChunkSize  int `json:"fallback_chunk_size"`  // Paragraph bound when no structure is found.
	NoiseFloor         int `json:"noise_floor"`          // Preamble/appendix/intro spans at or below this are dropped.
}

// DefaultThresholds returns the sizes tuned for the Code of Civil Procedure.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinChunkSize:       500,
		MaxChunkSize:       8000,
		RuleSplitThreshold: 5000,
		FallbackChunkSize:  1000,
		NoiseFloor:         100,
	}
}

// Validate rejects non-positive sizes and inverted size relationships.
func (t Thresholds) Validate() error {
	switch {
	case t.MinChunkSize <= 0:
		return fmt.Errorf("%w: min chunk size must be positive, got %d", ErrInvalidThresholds, t.MinChunkSize)
	case t.MaxChunkSize <= 0:
		return fmt.Errorf("%w: max chunk size must be positive, got %d", ErrInvalidThresholds, t.MaxChunkSize)
	case t.RuleSplitThreshold <= 0:
		return fmt.Errorf("%w: rule split threshold must be positive, got %d", ErrInvalidThresholds, t.RuleSplitThreshold)
	case t.FallbackChunkSize <= 0:
		return fmt.Errorf("%w: fallback chunk size must be positive, got %d", ErrInvalidThresholds, t.FallbackChunkSize)
	case t.NoiseFloor < 0:
		return fmt.Errorf("%w: noise floor must not be negative, got %d", ErrInvalidThresholds, t.NoiseFloor)
	case t.MinChunkSize >= t.RuleSplitThreshold:
		return fmt.Errorf("%w: min chunk size %d must be below rule split threshold %d",
			ErrInvalidThresholds, t.MinChunkSize, t.RuleSplitThreshold)
	case t.RuleSplitThreshold > t.MaxChunkSize:
		return fmt.Errorf("%w: rule split threshold %d exceeds max chunk size %d",
			ErrInvalidThresholds, t.RuleSplitThreshold, t.MaxChunkSize)
	}
	return nil
}

// String describes the thresholds, for logs.
func (t Thresholds) String() string {
	return fmt.Sprintf("min=%d max=%d rule_split=%d fallback=%d noise=%d",
		t.MinChunkSize, t.MaxChunkSize, t.RuleSplitThreshold, t.FallbackChunkSize, t.NoiseFloor)
}
