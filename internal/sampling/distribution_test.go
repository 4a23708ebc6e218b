package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		weights []float64
		wantErr error
	}{
		{"empty values", nil, nil, ErrEmptyDistribution},
		{"short weights", []string{"a", "b"}, []float64{1}, ErrWeightCount},
		{"long weights", []string{"a"}, []float64{0.5, 0.5}, ErrWeightCount},
		{"negative weight", []string{"a", "b"}, []float64{-0.5, 1.5}, ErrWeightRange},
		{"weight above one", []string{"a", "b"}, []float64{1.5, -0.5}, ErrWeightRange},
		{"sum below one", []string{"a", "b"}, []float64{0.4, 0.4}, ErrWeightSum},
		{"sum above one", []string{"a", "b"}, []float64{0.6, 0.6}, ErrWeightSum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.values, tt.weights)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_AcceptsFloatingPointSums(t *testing.T) {
	// 0.25+0.25+0.15+0.1+0.1+0.1+0.025+0.025 is not exactly 1 in float64.
	d, err := New(
		[]string{"a", "b", "c", "d", "e", "f", "g", "h"},
		[]float64{0.25, 0.25, 0.15, 0.1, 0.1, 0.1, 0.025, 0.025},
	)
	require.NoError(t, err)
	assert.Equal(t, 8, d.Len())
}

func TestNew_CopiesInputs(t *testing.T) {
	values := []string{"a", "b"}
	weights := []float64{0.5, 0.5}
	d, err := New(values, weights)
	require.NoError(t, err)

	values[0] = "z"
	weights[0] = 0.9
	assert.Equal(t, []string{"a", "b"}, d.Values)
	assert.Equal(t, []float64{0.5, 0.5}, d.Weights)
}

func TestUniform(t *testing.T) {
	d, err := Uniform([]int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, d.Weights)

	_, err = Uniform([]int{})
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestDraw_Deterministic(t *testing.T) {
	d, err := New([]string{"x", "y", "z"}, []float64{0.2, 0.3, 0.5})
	require.NoError(t, err)

	first, err := d.Draw(50, NewGenerator(DefaultSeed))
	require.NoError(t, err)
	second, err := d.Draw(50, NewGenerator(DefaultSeed))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDraw_CountsAndMembership(t *testing.T) {
	d, err := New([]string{"x", "y"}, []float64{0.5, 0.5})
	require.NoError(t, err)
	rng := NewGenerator(1)

	got, err := d.Draw(0, rng)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = d.Draw(200, rng)
	require.NoError(t, err)
	assert.Len(t, got, 200)
	for _, v := range got {
		assert.Contains(t, []string{"x", "y"}, v)
	}

	_, err = d.Draw(-1, rng)
	assert.Error(t, err)
}

func TestDraw_ZeroWeightNeverDrawn(t *testing.T) {
	d, err := New([]string{"never", "always", "also-never"}, []float64{0, 1, 0})
	require.NoError(t, err)

	got, err := d.Draw(500, NewGenerator(7))
	require.NoError(t, err)
	for _, v := range got {
		assert.Equal(t, "always", v)
	}
}

func TestDraw_ApproximatesWeights(t *testing.T) {
	d, err := New([]string{"heavy", "light"}, []float64{0.8, 0.2})
	require.NoError(t, err)

	const n = 20000
	got, err := d.Draw(n, NewGenerator(42))
	require.NoError(t, err)

	heavy := 0
	for _, v := range got {
		if v == "heavy" {
			heavy++
		}
	}
	assert.InDelta(t, 0.8, float64(heavy)/n, 0.02)
}

func TestDraw_ZeroValueDistribution(t *testing.T) {
	var d Distribution[string]
	_, err := d.Draw(1, NewGenerator(1))
	assert.ErrorIs(t, err, ErrEmptyDistribution)
}

func TestIndex_RoundingFallsBackToLastPositiveWeight(t *testing.T) {
	d := Distribution[string]{
		Values:     []string{"a", "b", "c"},
		Weights:    []float64{0.5, 0.5, 0},
		cumulative: []float64{0.5, 0.9999999999, 0.9999999999},
	}
	assert.Equal(t, 1, d.index(0.99999999995))
}

func TestDraw_RejectsOversizedCount(t *testing.T) {
	d, err := New([]string{"x", "y"}, []float64{0.5, 0.5})
	require.NoError(t, err)
	rng := NewGenerator(1)

	got, err := d.Draw(MaxDrawCount, rng)
	require.NoError(t, err)
	assert.Len(t, got, MaxDrawCount)

	for _, n := range []int{MaxDrawCount + 1, 1 << 45} {
		_, err = d.Draw(n, rng)
		assert.ErrorIs(t, err, ErrDrawCount)
	}
}
