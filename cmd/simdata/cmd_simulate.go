package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nvandessel/simdata/internal/config"
	"github.com/nvandessel/simdata/internal/logging"
	"github.com/nvandessel/simdata/internal/simulator"
	"github.com/nvandessel/simdata/internal/store"
)

type runMode int

const (
	modeFull runMode = iota
	modeSales
	modeDivisions
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the sales and division simulations",
		Long: `Run the full simulation from one seeded generator.

Sales are drawn first (unless disabled), then the divisions, so a given
seed always produces the same sales table and division CSV.

Examples:
  simdata simulate                         # Reference run, seed 853
  simdata simulate --seed 7 --no-sales     # Divisions only, seed 7
  simdata simulate --db .simdata/runs.db   # Also record the run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, modeFull)
		},
	}
	addSimulateFlags(cmd)
	return cmd
}

func newSalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Run only the sales simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, modeSales)
		},
	}
	addSimulateFlags(cmd)
	return cmd
}

func newDivisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "divisions",
		Short: "Run only the electoral-division simulation",
		Long: `Run only the electoral-division simulation and write the CSV.

The generator is not advanced by sales draws, so for the same seed the
table differs from 'simdata simulate' unless sales are disabled there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, modeDivisions)
		},
	}
	addSimulateFlags(cmd)
	return cmd
}

func addSimulateFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("seed", 0, "Generator seed (default 853)")
	cmd.Flags().String("output", "", "Division CSV path (default data/00-simulated_data/simulated_data.csv)")
	cmd.Flags().String("parquet", "", "Also write the division table as Parquet")
	cmd.Flags().String("sales-parquet", "", "Also write the sales table as Parquet")
	cmd.Flags().String("db", "", "Record the run in this SQLite database")
	cmd.Flags().Bool("no-sales", false, "Skip the sales simulation")
}

// loadConfig builds the effective configuration: file and environment first,
// then any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.SimConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	for flag, dst := range map[string]*string{
		"output":        &cfg.Output.CSV,
		"parquet":       &cfg.Output.Parquet,
		"sales-parquet": &cfg.Output.SalesParquet,
		"db":            &cfg.Output.DB,
	} {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			*dst, _ = flags.GetString(flag)
		}
	}
	if flags.Lookup("no-sales") != nil && flags.Changed("no-sales") {
		noSales, _ := flags.GetBool("no-sales")
		cfg.Sales.Enabled = !noSales
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.SimConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

// openStore opens the run database when one is configured.
func openStore(ctx context.Context, cfg *config.SimConfig) (*store.RunStore, error) {
	if cfg.Output.DB == "" {
		return nil, nil
	}
	s, err := store.Open(ctx, cfg.Output.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}
	return s, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM. The
// returned stop func releases the signal registration.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, mode runMode) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	runStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if runStore != nil {
		defer runStore.Close()
	}

	journal := logging.NewRunJournal(cfg.Logging.Dir, cfg.Logging.Level)
	defer journal.Close()

	var stdout io.Writer = cmd.OutOrStdout()
	if jsonOut {
		stdout = io.Discard
	}

	runner, err := simulator.NewRunner(cfg, simulator.Options{
		Logger:  newLogger(cmd, cfg),
		Stdout:  stdout,
		Store:   runStore,
		Journal: journal,
	})
	if err != nil {
		return err
	}

	var result *simulator.Result
	switch mode {
	case modeSales:
		result, err = runner.RunSales(ctx)
	case modeDivisions:
		result, err = runner.RunDivisions(ctx)
	default:
		result, err = runner.Run(ctx)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}
	if mode == modeDivisions {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d divisions to %s\n", len(result.Divisions), result.OutputCSV)
	}
	return nil
}
