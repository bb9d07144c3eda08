package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Verbose bool
var configPath string

var rootCmd = &cobra.Command{
	Use:   "sdecra",
	Short: "sdecra runs Esri's recommended Compress-Rebuild-Analyze maintenance on ArcSDE geodatabases",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sdecra: geodatabase maintenance, scheduled and reported.")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable verbose logs to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sdecra.yml", "Path to the maintenance configuration file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
