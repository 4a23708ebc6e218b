package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/simdata/internal/sampling"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestDefault(t *testing.T) {
	config := Default()

	assert.Equal(t, uint64(853), config.Seed)
	assert.Equal(t, "data/00-simulated_data/simulated_data.csv", config.Output.CSV)
	assert.Empty(t, config.Output.Parquet)
	assert.Empty(t, config.Output.DB)

	assert.True(t, config.Sales.Enabled)
	assert.Equal(t, 15, config.Sales.Count)
	assert.Equal(t, []string{"sixers", "LA Clipper", "NY Knicks", "LA Lakers"}, config.Sales.Vendors)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, config.Sales.ProductWeights)

	assert.Equal(t, 151, config.Divisions.Count)
	require.Len(t, config.Divisions.States, 8)
	assert.Equal(t, WeightedValue{Name: "Australian Capital Territory", Weight: 0.025}, config.Divisions.States[7])
	require.Len(t, config.Divisions.Parties, 5)
	assert.Equal(t, WeightedValue{Name: "Labor", Weight: 0.40}, config.Divisions.Parties[0])

	assert.Equal(t, "info", config.Logging.Level)
	require.NoError(t, config.Validate())
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "simdata.yaml")

	configContent := `
seed: 42
output:
  csv: out/divisions.csv
  db: ${SIMDATA_TEST_DIR}/runs.db
sales:
  enabled: false
divisions:
  count: 10
  parties:
    - name: Labor
      weight: 0.5
    - name: Liberal
      weight: 0.5
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0600))
	t.Setenv("SIMDATA_TEST_DIR", "/tmp/simdata")

	config, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), config.Seed)
	assert.Equal(t, "out/divisions.csv", config.Output.CSV)
	assert.Equal(t, "/tmp/simdata/runs.db", config.Output.DB)
	assert.False(t, config.Sales.Enabled)
	assert.Equal(t, 15, config.Sales.Count, "unset keys keep defaults")
	assert.Equal(t, 10, config.Divisions.Count)
	assert.Len(t, config.Divisions.States, 8)
	assert.Equal(t, []WeightedValue{{"Labor", 0.5}, {"Liberal", 0.5}}, config.Divisions.Parties)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [not, a, number"), 0600))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_DefaultFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("seed: 7\n"), 0600))

	t.Setenv("SIMDATA_OUTPUT_CSV", "env.csv")
	t.Setenv("SIMDATA_SALES_COUNT", "30")
	t.Setenv("SIMDATA_SALES_PRODUCT_WEIGHTS", "0.1,0.2,0.3,0.4")

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint64(7), config.Seed)
	assert.Equal(t, "env.csv", config.Output.CSV)
	assert.Equal(t, 30, config.Sales.Count)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4}, config.Sales.ProductWeights)
	require.NoError(t, config.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nlogging:\n  level: debug\n"), 0600))

	t.Setenv("SIMDATA_SEED", "99")
	t.Setenv("SIMDATA_LOGGING_LEVEL", "trace")

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), config.Seed)
	assert.Equal(t, "trace", config.Logging.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("SIMDATA_DIVISIONS_COUNT=20\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("SIMDATA_DIVISIONS_COUNT") })

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, config.Divisions.Count)
}

func TestLoad_InvalidEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SIMDATA_SEED", "not-a-number")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment overrides")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimConfig)
		wantErr string
	}{
		{"empty csv path", func(c *SimConfig) { c.Output.CSV = " " }, "output.csv"},
		{"zero sales", func(c *SimConfig) { c.Sales.Count = 0 }, "sales.count"},
		{"no vendors", func(c *SimConfig) { c.Sales.Vendors = nil }, "sales.vendors"},
		{"short product weights", func(c *SimConfig) { c.Sales.ProductWeights = []float64{1} }, "sales.product_weights"},
		{"zero divisions", func(c *SimConfig) { c.Divisions.Count = 0 }, "divisions.count"},
		{"too many sales", func(c *SimConfig) { c.Sales.Count = sampling.MaxDrawCount + 1 }, "sales.count"},
		{"too many divisions", func(c *SimConfig) { c.Divisions.Count = 1 << 45 }, "divisions.count"},
		{"bad state weights", func(c *SimConfig) { c.Divisions.States[0].Weight = 0.9 }, "divisions.states"},
		{"empty party name", func(c *SimConfig) { c.Divisions.Parties[1].Name = "" }, "divisions.parties"},
		{"bad level", func(c *SimConfig) { c.Logging.Level = "verbose" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_OversizedEnvCount(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SIMDATA_DIVISIONS_COUNT", "35184372088832")

	cfg, err := Load("")
	require.NoError(t, err)
	err = cfg.Validate()
	assert.ErrorIs(t, err, sampling.ErrDrawCount)
}

func TestValidate_SalesDisabledSkipsSalesChecks(t *testing.T) {
	c := Default()
	c.Sales.Enabled = false
	c.Sales.Count = 0
	assert.NoError(t, c.Validate())
}

func TestElectoralConfig(t *testing.T) {
	ec, err := Default().ElectoralConfig()
	require.NoError(t, err)
	assert.Equal(t, 151, ec.Count)
	assert.Equal(t, 8, ec.States.Len())
	assert.Equal(t, 5, ec.Parties.Len())
}

func TestSalesConfig_Copies(t *testing.T) {
	c := Default()
	sc := c.SalesConfig()
	sc.Vendors[0] = "changed"
	assert.Equal(t, "sixers", c.Sales.Vendors[0])
}

func TestClone(t *testing.T) {
	c := Default()
	c.Output.SalesParquet = "sales.parquet"
	clone := c.Clone()
	assert.Equal(t, c, clone)

	clone.Seed = 1
	clone.Sales.ProductWeights[0] = 1
	clone.Divisions.States[0].Name = "Nowhere"
	assert.Equal(t, uint64(853), c.Seed)
	assert.Equal(t, 0.25, c.Sales.ProductWeights[0])
	assert.Equal(t, "New South Wales", c.Divisions.States[0].Name)
}
