package cmd

import (
	stdctx "context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/history"
)

var historyLimit int
var historyDb string

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyDb, "db", "", "History database path (defaults to config.history from sdecra.yml)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded maintenance runs",
	Long: `History lists past maintenance runs from the SQLite history database.

Runs are only recorded when 'config.history' is set in sdecra.yml (or --db
is given). Newest runs are shown first.`,
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := historyDb
		if dbPath == "" {
			cfg, _, err := config.LoadMaintenanceConfig(configPath)
			if err != nil {
				cobra.CheckErr(fmt.Errorf("failed to load %q: %w", configPath, err))
			}
			dbPath = cfg.Config.History
		}
		if dbPath == "" {
			cobra.CheckErr(fmt.Errorf("no history database configured; set 'config.history' in %s or pass --db", configPath))
		}

		store, err := history.Open(dbPath)
		cobra.CheckErr(err)
		defer store.Close()

		runs, err := store.ListRuns(stdctx.Background(), historyLimit)
		cobra.CheckErr(err)

		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tCMD\tSTATUS\tOK\tFAILED\tDURATION\tRUN ID")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1fs\t%s\n",
				r.StartedAt, r.Cmd, r.OverallStatus, r.StepsSucceeded, r.StepsFailed,
				float64(r.DurationMs)/1000, r.RunId)
		}
		w.Flush()
	},
}
