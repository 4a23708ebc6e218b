package electoral

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/simdata/internal/sampling"
)

func simulateDefault(t *testing.T, seed uint64) []Division {
	t.Helper()
	divisions, err := Simulate(DefaultConfig(), sampling.NewGenerator(seed))
	require.NoError(t, err)
	return divisions
}

func TestSimulate_ShapeAndMembership(t *testing.T) {
	divisions := simulateDefault(t, sampling.DefaultSeed)
	require.Len(t, divisions, 151)

	for i, d := range divisions {
		assert.Equal(t, fmt.Sprintf("Division %d", i+1), d.Name)
		assert.Contains(t, States, d.State)
		assert.Contains(t, Parties, d.Party)
	}

	assert.Empty(t, Validate(divisions, DefaultConfig()))
}

func TestSimulate_NamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range simulateDefault(t, 1) {
		assert.False(t, seen[d.Name], "duplicate name %s", d.Name)
		seen[d.Name] = true
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	assert.Equal(t, simulateDefault(t, 853), simulateDefault(t, 853))
	assert.NotEqual(t, simulateDefault(t, 853), simulateDefault(t, 854))
}

func TestSimulate_StatesDrawnBeforeParties(t *testing.T) {
	cfg := DefaultConfig()
	rng := sampling.NewGenerator(99)
	states, err := cfg.States.Draw(cfg.Count, rng)
	require.NoError(t, err)
	parties, err := cfg.Parties.Draw(cfg.Count, rng)
	require.NoError(t, err)

	divisions := simulateDefault(t, 99)
	for i, d := range divisions {
		assert.Equal(t, states[i], d.State)
		assert.Equal(t, parties[i], d.Party)
	}
}

func TestSimulate_InvalidCount(t *testing.T) {
	cfg := DefaultConfig()
	for _, n := range []int{0, -1} {
		cfg.Count = n
		_, err := Simulate(cfg, sampling.NewGenerator(1))
		assert.Error(t, err, "count %d", n)
	}

	cfg.Count = 1 << 45
	_, err := Simulate(cfg, sampling.NewGenerator(1))
	assert.ErrorIs(t, err, sampling.ErrDrawCount)
}

func TestSimulate_UnvalidatedDistribution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parties = sampling.Distribution[string]{}
	_, err := Simulate(cfg, sampling.NewGenerator(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling parties")
}

func TestSimulate_ApproximatesWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 40000
	divisions, err := Simulate(cfg, sampling.NewGenerator(853))
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, d := range divisions {
		counts[d.Party]++
	}
	for i, p := range Parties {
		assert.InDelta(t, PartyWeights[i], float64(counts[p])/float64(cfg.Count), 0.015, "party %s", p)
	}
}

func TestWriteCSV_Format(t *testing.T) {
	divisions := simulateDefault(t, sampling.DefaultSeed)
	path := filepath.Join(t.TempDir(), "simulated_data.csv")
	require.NoError(t, WriteCSV(path, divisions))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 152)
	assert.Equal(t, "division,state,party", lines[0])
	for i, line := range lines[1:] {
		want := fmt.Sprintf("%s,%s,%s", divisions[i].Name, divisions[i].State, divisions[i].Party)
		assert.Equal(t, want, line)
	}
	assert.NotContains(t, string(data), `"`, "no quoting expected")
}

func TestWriteCSV_ByteIdenticalForSameSeed(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	require.NoError(t, WriteCSV(first, simulateDefault(t, 853)))
	require.NoError(t, WriteCSV(second, simulateDefault(t, 853)))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestWriteCSV_MissingDirectoryLeavesNothing(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data", "00-simulated_data", "simulated_data.csv")

	err := WriteCSV(path, simulateDefault(t, 853))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadCSV_RoundTripValidates(t *testing.T) {
	divisions := simulateDefault(t, 7)
	path := filepath.Join(t.TempDir(), "divisions.csv")
	require.NoError(t, WriteCSV(path, divisions))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, divisions, got)
	assert.Empty(t, Validate(got, DefaultConfig()))
}

func TestWriteParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divisions.parquet")
	require.NoError(t, WriteParquet(path, simulateDefault(t, 853)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
