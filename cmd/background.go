package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/orchestrator"
)

// RunBackgroundMaintenance is executed when 'sdecra' is launched with
// internal flags by 'sdecra submit'. It runs the full orchestration logic
// and logs to files only.
func RunBackgroundMaintenance(runIdStr, cfgPath, logDir string, ops []string) {
	bgLogger := log.With().Str("run_id", runIdStr).Logger()

	runId, err := uuid.Parse(runIdStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Background Error: Invalid run ID %q: %v\n", runIdStr, err)
		os.Exit(1)
	}

	if logDir == "" {
		fmt.Fprintf(os.Stderr, "Background Error: Log directory path not provided.\n")
		os.Exit(1)
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Background Error: Unable to resolve log directory %s", logDir)
	}

	bgLogger.Info().Msg("Starting execution.")
	bgLogger.Info().Msgf("Using config: %s", cfgPath)
	bgLogger.Info().Msgf("Using log directory: %s", logDir)

	// --- Load sdecra.yml ---

	cfg, configDir, err := config.LoadMaintenanceConfig(cfgPath)
	if err != nil {
		log.Error().Str("run_id", runIdStr).Msgf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// --- Create context ---

	ctx := &context.RunContext{
		RunId:     runId,
		Config:    cfg,
		ConfigDir: configDir,
		LogDir:    logDir,
		Ops:       ops,
		Cmd:       "submit-bg",
	}

	// --- Instantiate and run orchestrator ---

	registry := GetDependencies().HandlerRegistry
	orch := orchestrator.NewSDEOrchestrator(gptool.NewToolCLI(cfg.Config.Toolbox))

	bgLogger.Debug().Msg("Invoking orchestrator...")
	startTimeForSummary := time.Now()
	outcome, execErr := orch.Run(ctx, registry)

	// --- Process results & publish report ---

	if execErr != nil {
		bgLogger.Error().Err(execErr).Msg("Orchestration failed")
		os.Exit(1)
	}

	bgLogger.Info().Msg("Orchestration finished. Processing results...")

	summary := generateRunSummary(outcome, runId, startTimeForSummary, cfg, "submit-bg", logDir)
	publishRunReport(summary, cfg, logDir)

	bgLogger.Info().Msgf("Run summary written to %s", filepath.Join(logDir, "summary.json"))
	bgLogger.Info().Msg("Execution finished.")

	if summary.StepsFailed > 0 {
		os.Exit(1)
	}

	os.Exit(0)
}
