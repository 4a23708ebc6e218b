package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nvandessel/simdata/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show simdata configuration",
		Long: `Show the effective configuration after defaults, the config file,
.env and SIMDATA_* environment variables are applied.

Examples:
  simdata config list                 # Show all settings as YAML
  simdata config get seed             # Get a specific setting
  SIMDATA_SEED=7 simdata config get seed`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
	)
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s (valid: %s)", key, strings.Join(configKeys, ", "))
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

// configKeys lists the keys accepted by 'config get'.
var configKeys = []string{
	"seed",
	"output.csv", "output.parquet", "output.sales_parquet", "output.db",
	"sales.enabled", "sales.count", "sales.vendors", "sales.product_weights",
	"divisions.count", "divisions.states", "divisions.parties",
	"logging.level", "logging.dir",
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.SimConfig, key string) (interface{}, bool) {
	switch key {
	case "seed":
		return cfg.Seed, true
	case "output.csv":
		return cfg.Output.CSV, true
	case "output.parquet":
		return cfg.Output.Parquet, true
	case "output.sales_parquet":
		return cfg.Output.SalesParquet, true
	case "output.db":
		return cfg.Output.DB, true
	case "sales.enabled":
		return cfg.Sales.Enabled, true
	case "sales.count":
		return cfg.Sales.Count, true
	case "sales.vendors":
		return cfg.Sales.Vendors, true
	case "sales.product_weights":
		return cfg.Sales.ProductWeights, true
	case "divisions.count":
		return cfg.Divisions.Count, true
	case "divisions.states":
		return cfg.Divisions.States, true
	case "divisions.parties":
		return cfg.Divisions.Parties, true
	case "logging.level":
		return cfg.Logging.Level, true
	case "logging.dir":
		return cfg.Logging.Dir, true
	default:
		return nil, false
	}
}
