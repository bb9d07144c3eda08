package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/logging"
)

var submitOps []string

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringSliceVar(&submitOps, "only", nil, "Run only the specified operation(s): analyze, compress, rebuild")
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Launch a detached maintenance run and return immediately",
	Long: `Submit initiates an asynchronous maintenance run.

sdecra launches a detached background process that executes the full
workflow identical to 'sdecra run', then returns immediately. This is the
invocation style intended for OS schedulers (cron, Windows Task Scheduler)
firing a weekly night run: the scheduler sees a fast exit, while logs, the
summary and the optional email digest are produced by the background
process.

Logs and the final summary are written to a timestamped directory within
'.sdecra/logs/'.`,
	Run: func(cmd *cobra.Command, args []string) {
		// --- Load and validate sdecra.yml ---

		_, _, err := config.LoadMaintenanceConfig(configPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to load/validate %q: %w", configPath, err))
		}
		fmt.Printf("✓ Configuration %q loaded and validated.\n", configPath)

		// --- Prepare for background execution ---

		runId := uuid.New()
		runStartTime := time.Now()

		logDir, err := logging.CreateLogDir(runId, runStartTime, "submit")
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to create log directory for run %s: %w", runId.String(), err))
		}
		fmt.Printf("Logs for run %s will be stored in: %s\n", runId.String(), logDir)

		// Find the currently running sdecra executable
		executablePath, err := os.Executable()
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to determine sdecra executable path: %w", err))
		}

		absConfigPath, err := filepath.Abs(configPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to get absolute path for config %q: %w", configPath, err))
		}

		// --- Prepare args for background process ---

		bgArgs := []string{
			"--internal-run",
			"--run-id", runId.String(),
			"--cfg-path", absConfigPath,
			"--log-dir", logDir,
		}

		for _, op := range submitOps {
			bgArgs = append(bgArgs, "--only", op)
		}

		if Verbose {
			bgArgs = append(bgArgs, "--verbose")
		}

		// --- Create the command for background execution ---

		bgCmd := exec.Command(executablePath, bgArgs...)

		// Prevent inheriting std streams, this is crucial for detachment
		bgCmd.Stdin = nil
		bgCmd.Stdout = nil
		bgCmd.Stderr = nil

		// Creates a new session and detaches from the controlling terminal
		bgCmd.SysProcAttr = &syscall.SysProcAttr{
			Setsid: true,
		}

		fmt.Printf("Launching background process for run %s ...\n", runId.String())

		err = bgCmd.Start()
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to start background sdecra process: %w", err))
		}

		fmt.Printf("✓ Run %s submitted successfully.\n", runId.String())
		fmt.Printf("  Logs will be written to: %s\n", logDir)
		fmt.Printf("  Use 'sdecra history' or check %s to monitor the outcome.\n", filepath.Join(logDir, "summary.json"))
	},
}
