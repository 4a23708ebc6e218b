package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simdata",
		Short: "Simulated electoral-division and sales datasets",
		Long: `simdata generates reproducible synthetic datasets.

Run without a subcommand it prints 15 simulated egg sales and writes
151 simulated Australian electoral divisions to
data/00-simulated_data/simulated_data.csv, using seed 853.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, modeFull)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./simdata.yaml if present)")
	addSimulateFlags(rootCmd)

	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newSalesCmd(),
		newDivisionsCmd(),
		newVerifyCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "simdata version %s\n", version)
			}
		},
	}
}
