package iwl

import "github.com/pkg/errors"

// Precondition violations reported by NewDistribution.
var (
	ErrEmptyDistribution   = errors.New("empty distribution")
	ErrNotPowerOfTwo       = errors.New("distribution length is not a power of two")
	ErrNegativeProbability = errors.New("negative probability")
	ErrNotNormalized       = errors.New("probabilities do not sum to one")
	ErrDimensionMismatch   = errors.New("dimension mismatch")
)
