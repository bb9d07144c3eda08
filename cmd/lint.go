package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
)

func init() {
	rootCmd.AddCommand(lintCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the syntax and structure of an sdecra.yml file",
	Long: `Lint checks an sdecra.yml file for correctness according to sdecra's rules.
It validates required connection entries, connection file naming, statistics
target flags, rebuild scope and email report settings without executing any
part of the workflow.

Use this command to check your configuration before handing it to an OS
scheduler via 'sdecra submit'.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lintFile := configPath

		if len(args) > 0 {
			lintFile = args[0]
		}

		fmt.Printf("Linting file: %s\n", lintFile)

		_, _, err := config.LoadMaintenanceConfig(lintFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✖ Validation failed: %v\n", err)
			os.Exit(1)
		} else {
			fmt.Printf("✓ %s is valid!\n", lintFile)
		}
	},
}
