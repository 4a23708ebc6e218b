// Package simulator runs the sales and electoral-division simulations from a
// single seeded generator and writes their outputs.
package simulator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/simdata/internal/catalog"
	"github.com/nvandessel/simdata/internal/config"
	"github.com/nvandessel/simdata/internal/electoral"
	"github.com/nvandessel/simdata/internal/logging"
	"github.com/nvandessel/simdata/internal/sales"
	"github.com/nvandessel/simdata/internal/sampling"
	"github.com/nvandessel/simdata/internal/store"
)

// Clock supplies the base time for sales timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Options carries the runner's collaborators. Zero values are replaced with
// defaults: a discarding logger, the wall clock and os.Stdout.
type Options struct {
	Logger  *slog.Logger
	Clock   Clock
	Stdout  io.Writer
	Store   *store.RunStore
	Journal *logging.RunJournal
}

// Result describes one completed run.
type Result struct {
	RunID     string               `json:"run_id"`
	Seed      uint64               `json:"seed"`
	Sales     []sales.Record       `json:"sales,omitempty"`
	Divisions []electoral.Division `json:"divisions,omitempty"`
	OutputCSV string               `json:"output_csv,omitempty"`
}

// Runner orchestrates a simulation run.
type Runner struct {
	cfg       *config.SimConfig
	electoral electoral.Config
	catalog   *catalog.Catalog

	logger  *slog.Logger
	clock   Clock
	stdout  io.Writer
	store   *store.RunStore
	journal *logging.RunJournal
}

// NewRunner validates cfg and returns a runner for it.
func NewRunner(cfg *config.SimConfig, opts Options) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ecfg, err := cfg.ElectoralConfig()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:       cfg,
		electoral: ecfg,
		catalog:   catalog.Default(),
		logger:    opts.Logger,
		clock:     opts.Clock,
		stdout:    opts.Stdout,
		store:     opts.Store,
		journal:   opts.Journal,
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	return r, nil
}

// Run executes the full simulation: sales first (when enabled), then the
// divisions, from one generator seeded with cfg.Seed.
//
// Outputs are written before the run is recorded. If recording fails the
// returned error wraps the store error, the CSV and Parquet files already
// hold the new tables, and no journal entry is written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	return r.run(ctx, r.cfg.Sales.Enabled, true)
}

// RunSales executes only the sales simulation. Nothing is written to the
// division CSV.
func (r *Runner) RunSales(ctx context.Context) (*Result, error) {
	return r.run(ctx, true, false)
}

// RunDivisions executes only the division simulation. The generator is not
// advanced by sales draws, so the table differs from a full run with sales
// enabled.
func (r *Runner) RunDivisions(ctx context.Context) (*Result, error) {
	return r.run(ctx, false, true)
}

func (r *Runner) run(ctx context.Context, withSales, withDivisions bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{
		RunID: uuid.NewString(),
		Seed:  r.cfg.Seed,
	}
	logger := r.logger.With("run_id", result.RunID, "seed", result.Seed)
	rng := sampling.NewGenerator(r.cfg.Seed)

	if withSales {
		records, err := r.simulateSales(ctx, logger, rng)
		if err != nil {
			return nil, err
		}
		result.Sales = records
	}

	if withDivisions {
		divisions, err := r.simulateDivisions(ctx, logger, rng)
		if err != nil {
			return nil, err
		}
		result.Divisions = divisions
		result.OutputCSV = r.cfg.Output.CSV
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.store != nil {
		run := store.Run{
			ID:        result.RunID,
			Seed:      result.Seed,
			CreatedAt: r.clock.Now(),
			OutputCSV: result.OutputCSV,
		}
		if err := r.store.SaveRun(ctx, run, result.Divisions, result.Sales); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
		logger.Debug("run recorded", "db", r.cfg.Output.DB)
	}

	r.journal.Record(logging.RunEvent{
		RunID:     result.RunID,
		Seed:      result.Seed,
		Divisions: len(result.Divisions),
		Sales:     len(result.Sales),
		Output:    result.OutputCSV,
	})

	logger.Info("simulation complete",
		"divisions", len(result.Divisions),
		"sales", len(result.Sales),
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (r *Runner) simulateSales(ctx context.Context, logger *slog.Logger, rng *rand.Rand) ([]sales.Record, error) {
	records, err := sales.Simulate(r.cfg.SalesConfig(), r.catalog, rng, r.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("simulating sales: %w", err)
	}
	for i, rec := range records {
		logger.Log(ctx, logging.LevelTrace, "sale drawn",
			"row", i, "vendor", rec.Vendor, "product_id", rec.ProductID, "nowtime", rec.Timestamp)
	}

	if err := sales.Render(r.stdout, records); err != nil {
		return nil, fmt.Errorf("printing sales: %w", err)
	}

	if path := r.cfg.Output.SalesParquet; path != "" {
		if err := sales.WriteParquet(path, records); err != nil {
			return nil, err
		}
		logger.Debug("sales parquet written", "path", path)
	}
	return records, nil
}

func (r *Runner) simulateDivisions(ctx context.Context, logger *slog.Logger, rng *rand.Rand) ([]electoral.Division, error) {
	divisions, err := electoral.Simulate(r.electoral, rng)
	if err != nil {
		return nil, fmt.Errorf("simulating divisions: %w", err)
	}
	for _, d := range divisions {
		logger.Log(ctx, logging.LevelTrace, "division drawn",
			"division", d.Name, "state", d.State, "party", d.Party)
	}

	if err := electoral.WriteCSV(r.cfg.Output.CSV, divisions); err != nil {
		return nil, err
	}
	logger.Debug("division csv written", "path", r.cfg.Output.CSV, "rows", len(divisions))

	if path := r.cfg.Output.Parquet; path != "" {
		if err := electoral.WriteParquet(path, divisions); err != nil {
			return nil, err
		}
		logger.Debug("division parquet written", "path", path)
	}
	return divisions, nil
}
