// Package config provides unified configuration loading for simdata.
// It supports loading from YAML files, a .env file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/simdata/internal/catalog"
	"github.com/nvandessel/simdata/internal/electoral"
	"github.com/nvandessel/simdata/internal/sales"
	"github.com/nvandessel/simdata/internal/sampling"
)

// DefaultConfigFile is read from the working directory when no file is given.
const DefaultConfigFile = "simdata.yaml"

// EnvPrefix prefixes every environment override, e.g. SIMDATA_SEED.
const EnvPrefix = "SIMDATA"

// SimConfig contains all simdata configuration settings.
type SimConfig struct {
	// Seed initializes the run's pseudo-random generator.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Output contains destination paths.
	Output OutputConfig `json:"output" yaml:"output"`

	// Sales contains settings for the sales-record simulation.
	Sales SalesConfig `json:"sales" yaml:"sales"`

	// Divisions contains settings for the electoral-division simulation.
	Divisions DivisionsConfig `json:"divisions" yaml:"divisions"`

	// Logging contains settings for operational logging and the run journal.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// OutputConfig configures where results are written.
type OutputConfig struct {
	// CSV is the division table path. Its directory must exist.
	CSV string `json:"csv" yaml:"csv"`

	// Parquet, when set, also writes the division table as Parquet.
	Parquet string `json:"parquet,omitempty" yaml:"parquet,omitempty"`

	// SalesParquet, when set, writes the sales table as Parquet.
	SalesParquet string `json:"sales_parquet,omitempty" yaml:"sales_parquet,omitempty" split_words:"true"`

	// DB, when set, records each run in a SQLite database at this path.
	DB string `json:"db,omitempty" yaml:"db,omitempty"`
}

// SalesConfig configures the sales-record simulation.
type SalesConfig struct {
	Enabled        bool      `json:"enabled" yaml:"enabled"`
	Count          int       `json:"count" yaml:"count"`
	Vendors        []string  `json:"vendors" yaml:"vendors"`
	ProductWeights []float64 `json:"product_weights" yaml:"product_weights" split_words:"true"`
}

// DivisionsConfig configures the electoral-division simulation.
type DivisionsConfig struct {
	Count   int             `json:"count" yaml:"count"`
	States  []WeightedValue `json:"states" yaml:"states" ignored:"true"`
	Parties []WeightedValue `json:"parties" yaml:"parties" ignored:"true"`
}

// WeightedValue is one outcome of a categorical distribution.
type WeightedValue struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// LoggingConfig configures simdata's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" and "trace" also append each run to <dir>/runs.jsonl.
	Level string `json:"level" yaml:"level"`

	// Dir holds the run journal.
	Dir string `json:"dir" yaml:"dir"`
}

// Default returns a SimConfig that reproduces the reference run.
func Default() *SimConfig {
	salesCfg := sales.DefaultConfig()
	return &SimConfig{
		Seed: sampling.DefaultSeed,
		Output: OutputConfig{
			CSV: electoral.DefaultOutputPath,
		},
		Sales: SalesConfig{
			Enabled:        true,
			Count:          salesCfg.Count,
			Vendors:        salesCfg.Vendors,
			ProductWeights: salesCfg.ProductWeights,
		},
		Divisions: DivisionsConfig{
			Count:   electoral.DefaultDivisionCount,
			States:  zipWeights(electoral.States, electoral.StateWeights),
			Parties: zipWeights(electoral.Parties, electoral.PartyWeights),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   ".simdata",
		},
	}
}

// Load builds the effective configuration.
// Order: defaults -> YAML file -> .env -> SIMDATA_* environment variables.
// An empty path falls back to ./simdata.yaml when it exists.
func Load(path string) (*SimConfig, error) {
	config := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys missing from the file keep their defaults.
func LoadFromFile(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Output.CSV = expandEnvVars(config.Output.CSV)
	config.Output.Parquet = expandEnvVars(config.Output.Parquet)
	config.Output.SalesParquet = expandEnvVars(config.Output.SalesParquet)
	config.Output.DB = expandEnvVars(config.Output.DB)

	return config, nil
}

// ApplyEnvOverrides applies SIMDATA_* environment variables to config.
// Only variables that are set are applied.
func ApplyEnvOverrides(config *SimConfig) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	return nil
}

// loadDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *SimConfig) Validate() error {
	if strings.TrimSpace(c.Output.CSV) == "" {
		return fmt.Errorf("output.csv must be set")
	}

	if c.Sales.Enabled {
		if c.Sales.Count <= 0 {
			return fmt.Errorf("sales.count must be positive, got %d", c.Sales.Count)
		}
		if err := sampling.CheckCount(c.Sales.Count); err != nil {
			return fmt.Errorf("sales.count: %w", err)
		}
		if len(c.Sales.Vendors) == 0 {
			return fmt.Errorf("sales.vendors must not be empty")
		}
		if _, err := sampling.New(catalog.Default().IDs(), c.Sales.ProductWeights); err != nil {
			return fmt.Errorf("sales.product_weights: %w", err)
		}
	}

	if _, err := c.ElectoralConfig(); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Clone returns a deep copy of c.
func (c *SimConfig) Clone() *SimConfig {
	out := *c
	out.Sales.Vendors = append([]string(nil), c.Sales.Vendors...)
	out.Sales.ProductWeights = append([]float64(nil), c.Sales.ProductWeights...)
	out.Divisions.States = append([]WeightedValue(nil), c.Divisions.States...)
	out.Divisions.Parties = append([]WeightedValue(nil), c.Divisions.Parties...)
	return &out
}

// SalesConfig converts the sales settings into a simulator config.
func (c *SimConfig) SalesConfig() sales.Config {
	return sales.Config{
		Count:          c.Sales.Count,
		Vendors:        append([]string(nil), c.Sales.Vendors...),
		ProductWeights: append([]float64(nil), c.Sales.ProductWeights...),
	}
}

// ElectoralConfig converts the division settings into a validated simulator config.
func (c *SimConfig) ElectoralConfig() (electoral.Config, error) {
	if c.Divisions.Count <= 0 {
		return electoral.Config{}, fmt.Errorf("divisions.count must be positive, got %d", c.Divisions.Count)
	}
	if err := sampling.CheckCount(c.Divisions.Count); err != nil {
		return electoral.Config{}, fmt.Errorf("divisions.count: %w", err)
	}
	states, err := toDistribution(c.Divisions.States)
	if err != nil {
		return electoral.Config{}, fmt.Errorf("divisions.states: %w", err)
	}
	parties, err := toDistribution(c.Divisions.Parties)
	if err != nil {
		return electoral.Config{}, fmt.Errorf("divisions.parties: %w", err)
	}
	return electoral.Config{
		Count:   c.Divisions.Count,
		States:  states,
		Parties: parties,
	}, nil
}

func toDistribution(values []WeightedValue) (sampling.Distribution[string], error) {
	names := make([]string, len(values))
	weights := make([]float64, len(values))
	for i, v := range values {
		if strings.TrimSpace(v.Name) == "" {
			return sampling.Distribution[string]{}, fmt.Errorf("entry %d has an empty name", i)
		}
		names[i] = v.Name
		weights[i] = v.Weight
	}
	return sampling.New(names, weights)
}

func zipWeights(names []string, weights []float64) []WeightedValue {
	out := make([]WeightedValue, len(names))
	for i := range names {
		out[i] = WeightedValue{Name: names[i], Weight: weights[i]}
	}
	return out
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
