package sampling

import (
	"fmt"
	"math/rand/v2"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint64 = 853

// NewGenerator returns a PCG-backed generator seeded from seed.
// Two generators built from the same seed yield identical sequences.
func NewGenerator(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// UniformOffsets draws n values uniformly from [0, upper).
func UniformOffsets(n int, upper float64, rng *rand.Rand) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("offset count must be non-negative, got %d", n)
	}
	if err := CheckCount(n); err != nil {
		return nil, err
	}
	if upper <= 0 {
		return nil, fmt.Errorf("offset upper bound must be positive, got %v", upper)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64() * upper
	}
	return out, nil
}
