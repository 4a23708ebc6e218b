package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/simdata/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the run database",
		Long: `List runs recorded with --db (or output.db), newest first.

Examples:
  simdata history --db .simdata/runs.db
  simdata history --db .simdata/runs.db --show <run-id>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			show, _ := cmd.Flags().GetString("show")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Output.DB == "" {
				return fmt.Errorf("no run database configured; pass --db or set output.db")
			}
			if _, err := os.Stat(cfg.Output.DB); err != nil {
				return fmt.Errorf("run database %s: %w", cfg.Output.DB, err)
			}

			ctx := cmd.Context()
			runStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer runStore.Close()

			if show != "" {
				return showRun(cmd, runStore, show, jsonOut)
			}

			runs, err := runStore.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				if runs == nil {
					runs = []store.Run{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSEED\tCREATED\tDIVISIONS\tSALES\tOUTPUT")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\n",
					r.ID, r.Seed, r.CreatedAt.Local().Format(time.DateTime), r.DivisionCount, r.SalesCount, r.OutputCSV)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().String("db", "", "Run database path (default output.db from config)")
	cmd.Flags().Int("limit", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().String("show", "", "Show the divisions and sales of one run")
	return cmd
}

func showRun(cmd *cobra.Command, runStore *store.RunStore, id string, jsonOut bool) error {
	ctx := cmd.Context()
	run, err := runStore.GetRun(ctx, id)
	if err != nil {
		return err
	}
	divisions, err := runStore.Divisions(ctx, id)
	if err != nil {
		return err
	}
	records, err := runStore.Sales(ctx, id)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
			"run":       run,
			"divisions": divisions,
			"sales":     records,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (seed %d, %s)\n", run.ID, run.Seed, run.CreatedAt.Local().Format(time.DateTime))
	if run.OutputCSV != "" {
		fmt.Fprintf(out, "Output: %s\n", run.OutputCSV)
	}
	if len(records) > 0 {
		fmt.Fprintf(out, "\nSales (%d):\n", len(records))
		for _, r := range records {
			fmt.Fprintf(out, "  %s  %-10s  %d  %s  %s\n",
				r.Timestamp.Format(time.DateTime), r.Vendor, r.ProductID, r.ProductName, r.CurrentPrice.StringFixed(2))
		}
	}
	if len(divisions) > 0 {
		fmt.Fprintf(out, "\nDivisions (%d):\n", len(divisions))
		for _, d := range divisions {
			fmt.Fprintf(out, "  %s,%s,%s\n", d.Name, d.State, d.Party)
		}
	}
	return nil
}
