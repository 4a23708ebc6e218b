package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/simdata/internal/electoral"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <csv>",
		Short: "Check a division CSV against the configured distributions",
		Long: `Read a division CSV and check it:
  - the header is division,state,party
  - the row count matches divisions.count
  - divisions are named "Division 1".."Division N" in order
  - every state and party is one of the configured outcomes

Exits non-zero when any check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			path := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ecfg, err := cfg.ElectoralConfig()
			if err != nil {
				return err
			}

			divisions, err := electoral.ReadCSV(path)
			if err != nil {
				return err
			}
			issues := electoral.Validate(divisions, ecfg)

			if jsonOut {
				if issues == nil {
					issues = []electoral.ValidationError{}
				}
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"path":   path,
					"rows":   len(divisions),
					"valid":  len(issues) == 0,
					"issues": issues,
				})
			} else if len(issues) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d divisions valid\n", path, len(divisions))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %d issues\n", path, len(issues))
				for _, issue := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
				}
			}

			if len(issues) > 0 {
				return fmt.Errorf("%s failed verification with %d issues", path, len(issues))
			}
			return nil
		},
	}
}
