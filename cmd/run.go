package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/logging"
	"github.com/SDFIdk/SDE-CRA/internal/orchestrator"
)

var runInitialAnalyze bool

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runInitialAnalyze, "initial-analyze", false, "Run the warm-up analyze pass before compress (overrides config)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full maintenance workflow and wait for completion",
	Long: `Run executes the full maintenance workflow defined in sdecra.yml synchronously:

  1. (optional) analyze datasets - warm-up pass before compress
  2. compress - admin connection only
  3. analyze datasets - admin connection, then each data owner
  4. rebuild indexes - admin connection, then each data owner

The step order is fixed; it mirrors the vendor-recommended workflow. A failed
step is recorded and the run continues with the next step. Progress is shown
in the terminal and logs are written to '.sdecra/logs/'.

Use 'sdecra submit' instead for a detached run suited to OS schedulers.`,
	Run: func(cmd *cobra.Command, args []string) {
		registry := GetDependencies().HandlerRegistry

		// --- Load and validate sdecra.yml ---

		cfg, configDir, err := config.LoadMaintenanceConfig(configPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to load %q: %w", configPath, err))
		}

		if cmd.Flags().Changed("initial-analyze") {
			cfg.Config.InitialAnalyze = runInitialAnalyze
		}

		log.Info().Msgf("✓ Configuration %q loaded and validated.", configPath)

		// --- Initialize run context and logging ---

		runId := uuid.New()
		runStartTime := time.Now()

		logDir, err := logging.CreateLogDir(runId, runStartTime, "run")
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to create log directory for run %s: %w", runId.String(), err))
		}

		logFilePath := filepath.Join(logDir, "run.log")
		err = logging.ConfigureGlobalLogger(Verbose, logFilePath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to initialize logging: %w", err))
		}

		logCtx := log.With().Str("run_id", runId.String()).Logger()
		logCtx.Info().Msgf("Logs will be stored in: %s", logDir)

		// --- Set up run context ---

		ctx := &context.RunContext{
			RunId:     runId,
			Config:    cfg,
			ConfigDir: configDir,
			LogDir:    logDir,
			Cmd:       "run",
		}

		// --- Instantiate and run orchestrator ---

		orch := orchestrator.NewSDEOrchestrator(gptool.NewToolCLI(cfg.Config.Toolbox))
		logCtx.Info().Msg("Starting maintenance run...")

		outcome, err := orch.Run(ctx, registry)
		if err != nil {
			logCtx.Error().Err(err).Msg("Orchestration failed")
			cobra.CheckErr(err)
		}

		// --- Construct and publish the run report ---

		logCtx.Debug().Msg("Generating run summary...")

		summary := generateRunSummary(outcome, runId, runStartTime, cfg, "run", logDir)
		publishRunReport(summary, cfg, logDir)

		fmt.Println() // Visual spacing
		logCtx.Info().Msgf("✓ Maintenance run %s, logs saved to: %s", summary.OverallStatus, logDir)
	},
}
