package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_SameSeedSameSequence(t *testing.T) {
	a := NewGenerator(853)
	b := NewGenerator(853)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestNewGenerator_DifferentSeeds(t *testing.T) {
	a := NewGenerator(1)
	b := NewGenerator(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds produced identical sequences")
}

func TestUniformOffsets(t *testing.T) {
	got, err := UniformOffsets(100, 900, NewGenerator(853))
	require.NoError(t, err)
	require.Len(t, got, 100)
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 900.0)
	}

	_, err = UniformOffsets(-1, 10, NewGenerator(1))
	assert.Error(t, err)
	_, err = UniformOffsets(1, 0, NewGenerator(1))
	assert.Error(t, err)
}

func TestUniformOffsets_RejectsOversizedCount(t *testing.T) {
	_, err := UniformOffsets(1<<45, 60, NewGenerator(1))
	assert.ErrorIs(t, err, ErrDrawCount)
	_, err = UniformOffsets(MaxDrawCount+1, 60, NewGenerator(1))
	assert.ErrorIs(t, err, ErrDrawCount)
}
