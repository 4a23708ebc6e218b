// Package sampling provides weighted categorical sampling over an explicitly
// seeded pseudo-random generator.
//
// There is no package-level random state. Every draw takes the generator as a
// parameter so that a run is reproducible from its seed alone, provided the
// draws happen in the same order.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// weightTolerance is how far the weight sum may drift from 1.
const weightTolerance = 1e-8

// MaxDrawCount bounds the number of samples a single call may produce.
const MaxDrawCount = 1_000_000

var (
	// ErrEmptyDistribution is returned when a distribution has no values.
	ErrEmptyDistribution = errors.New("distribution has no values")

	// ErrWeightCount is returned when the weight vector length differs from the value count.
	ErrWeightCount = errors.New("weight count does not match value count")

	// ErrWeightRange is returned when a weight falls outside [0, 1].
	ErrWeightRange = errors.New("weight out of range [0, 1]")

	// ErrWeightSum is returned when the weights do not sum to 1.
	ErrWeightSum = errors.New("weights do not sum to 1")

	// ErrDrawCount is returned when a draw count exceeds MaxDrawCount.
	ErrDrawCount = errors.New("draw count exceeds limit")
)

// Distribution is a finite set of labeled outcomes, each with a fixed probability.
type Distribution[T any] struct {
	Values  []T
	Weights []float64

	// cumulative[i] is the sum of Weights[0..i].
	cumulative []float64
}

// New builds a validated distribution. Values and weights are copied.
func New[T any](values []T, weights []float64) (Distribution[T], error) {
	if len(values) == 0 {
		return Distribution[T]{}, ErrEmptyDistribution
	}
	if len(weights) != len(values) {
		return Distribution[T]{}, fmt.Errorf("%w: %d weights for %d values", ErrWeightCount, len(weights), len(values))
	}

	cumulative := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return Distribution[T]{}, fmt.Errorf("%w: weights[%d] = %v", ErrWeightRange, i, w)
		}
		sum += w
		cumulative[i] = sum
	}
	if math.Abs(sum-1) > weightTolerance {
		return Distribution[T]{}, fmt.Errorf("%w: got %v", ErrWeightSum, sum)
	}

	return Distribution[T]{
		Values:     append([]T(nil), values...),
		Weights:    append([]float64(nil), weights...),
		cumulative: cumulative,
	}, nil
}

// Uniform builds a distribution giving every value the same weight.
func Uniform[T any](values []T) (Distribution[T], error) {
	if len(values) == 0 {
		return Distribution[T]{}, ErrEmptyDistribution
	}
	weights := make([]float64, len(values))
	for i := range weights {
		weights[i] = 1 / float64(len(values))
	}
	return New(values, weights)
}

// Len returns the number of outcomes.
func (d Distribution[T]) Len() int {
	return len(d.Values)
}

// Draw samples n values with replacement. Each sample consumes exactly one
// Float64 from rng.
func (d Distribution[T]) Draw(n int, rng *rand.Rand) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("draw count must be non-negative, got %d", n)
	}
	if err := CheckCount(n); err != nil {
		return nil, err
	}
	if len(d.cumulative) == 0 || len(d.cumulative) != len(d.Values) {
		return nil, fmt.Errorf("draw from unvalidated distribution: %w", ErrEmptyDistribution)
	}

	out := make([]T, n)
	for i := range out {
		out[i] = d.Values[d.index(rng.Float64())]
	}
	return out, nil
}

// CheckCount returns ErrDrawCount when n is above MaxDrawCount.
func CheckCount(n int) error {
	if n > MaxDrawCount {
		return fmt.Errorf("%w: got %d, max %d", ErrDrawCount, n, MaxDrawCount)
	}
	return nil
}

// index maps u in [0, 1) to an outcome via the cumulative weights.
func (d Distribution[T]) index(u float64) int {
	i := sort.Search(len(d.cumulative), func(i int) bool { return d.cumulative[i] > u })
	if i < len(d.cumulative) {
		return i
	}
	// Rounding left the total just under u; take the last outcome that can occur.
	for j := len(d.Weights) - 1; j >= 0; j-- {
		if d.Weights[j] > 0 {
			return j
		}
	}
	return len(d.Values) - 1
}
