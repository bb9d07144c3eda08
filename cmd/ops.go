package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/logging"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/orchestrator"
)

var opsPerDataset bool

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(rebuildCmd)

	for _, c := range []*cobra.Command{analyzeCmd, rebuildCmd} {
		c.Flags().BoolVar(&opsPerDataset, "per-dataset", false, "Run the owner pass one dataset at a time, timing each dataset on its own")
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a standalone analyze pass (admin connection, then each data owner)",
	Run: func(cmd *cobra.Command, args []string) {
		runSingleOp(models.OpAnalyze)
	},
}

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Run a standalone compress (admin connection only)",
	Run: func(cmd *cobra.Command, args []string) {
		runSingleOp(models.OpCompress)
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Run a standalone index rebuild (admin connection, then each data owner)",
	Run: func(cmd *cobra.Command, args []string) {
		runSingleOp(models.OpRebuild)
	},
}

// runSingleOp executes one operation of the workflow on its own. Detailed
// logs go to the run's log file; the terminal gets a spinner while the
// vendor tool works, since a compress or rebuild can take hours.
func runSingleOp(op string) {
	registry := GetDependencies().HandlerRegistry

	cfg, configDir, err := config.LoadMaintenanceConfig(configPath)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("failed to load %q: %w", configPath, err))
	}

	runId := uuid.New()
	runStartTime := time.Now()

	logDir, err := logging.CreateLogDir(runId, runStartTime, op)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("failed to create log directory for run %s: %w", runId.String(), err))
	}

	err = logging.ConfigureGlobalLogger(Verbose, filepath.Join(logDir, "run.log"))
	if err != nil {
		cobra.CheckErr(fmt.Errorf("failed to initialize logging: %w", err))
	}

	ctx := &context.RunContext{
		RunId:      runId,
		Config:     cfg,
		ConfigDir:  configDir,
		LogDir:     logDir,
		Ops:        []string{op},
		PerDataset: opsPerDataset,
		Cmd:        op,
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = fmt.Sprintf(" Running %s ... (logs: %s)", op, logDir)
	sp.Start()

	orch := orchestrator.NewSDEOrchestrator(gptool.NewToolCLI(cfg.Config.Toolbox))
	outcome, err := orch.Run(ctx, registry)

	sp.Stop()

	if err != nil {
		cobra.CheckErr(err)
	}

	summary := generateRunSummary(outcome, runId, runStartTime, cfg, op, logDir)
	publishRunReport(summary, cfg, logDir)

	for _, step := range summary.Steps {
		marker := "✓"
		if !step.Success {
			marker = "✖"
		}
		fmt.Printf("%s %-28s %8.1fs  %s\n", marker, step.StepId, float64(step.DurationMs)/1000, step.Error)
	}
	fmt.Printf("\n%s finished: %s (%d succeeded, %d failed)\n", op, summary.OverallStatus, summary.StepsSucceeded, summary.StepsFailed)

	if summary.StepsFailed > 0 {
		log.Error().Msgf("%s finished with failures, see %s", op, logDir)
	}
}
