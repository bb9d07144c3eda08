package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/cmd"
	"github.com/SDFIdk/SDE-CRA/internal/logging"
	"github.com/SDFIdk/SDE-CRA/internal/stephandler"
)

func main() {
	// Check if launched in internal background mode before executing normal commands
	isInternalRun := false
	targetRunId := ""
	targetCfgPath := ""
	targetOps := []string{}
	targetLogDir := ""
	isVerbose := false

	for i, arg := range os.Args {
		if arg == "--internal-run" {
			isInternalRun = true
		}
		if arg == "--run-id" && i+1 < len(os.Args) {
			targetRunId = os.Args[i+1]
		}
		if arg == "--cfg-path" && i+1 < len(os.Args) {
			targetCfgPath = os.Args[i+1]
		}
		// Collect all --only arguments
		if arg == "--only" && i+1 < len(os.Args) {
			targetOps = append(targetOps, os.Args[i+1])
		}
		if arg == "--log-dir" && i+1 < len(os.Args) {
			targetLogDir = os.Args[i+1]
		}
		if arg == "--verbose" || arg == "-v" {
			isVerbose = true
		}
	}

	logFilePath := "" // Default to terminal logging

	if isInternalRun {
		if targetLogDir == "" {
			fmt.Fprintln(os.Stderr, "Background Error: Log directory must be provided via --log-dir for internal run.")
			os.Exit(1)
		}

		logFilePath = filepath.Join(targetLogDir, "run.log")
	}

	err := logging.ConfigureGlobalLogger(isVerbose, logFilePath)
	if err != nil {
		// Fallback to basic stderr if logger setup fails
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cmd.SetDependencies(&cmd.AppDependencies{
		HandlerRegistry: stephandler.NewDefaultRegistry(),
	})

	// --- Execute command ---

	if isInternalRun {
		log.Info().Msgf("[Background Startup] Running background maintenance %s", targetRunId)
		cmd.RunBackgroundMaintenance(targetRunId, targetCfgPath, targetLogDir, targetOps)
	} else {
		log.Debug().Msg("Starting sdecra CLI command execution")
		cmd.Execute()
	}
}
