package cmd

import (
	stdctx "context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/internal/history"
	"github.com/SDFIdk/SDE-CRA/internal/mailer"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/orchestrator"
	"github.com/SDFIdk/SDE-CRA/types"
)

// generateRunSummary calculates the summary from the run outcome and context.
func generateRunSummary(
	outcome *orchestrator.RunOutcome,
	runId uuid.UUID,
	startTime time.Time,
	cfg *types.MaintenanceConfig,
	cmdName string,
	logDir string,
) models.RunSummary {
	host, _ := os.Hostname()

	// The directory was created (and named) by whoever launched the run; for
	// a background run that is the parent submit process, at an earlier
	// timestamp than ours. Derive the name from the real path instead of
	// reformatting a clock reading.
	logDirBaseName := filepath.Base(logDir)

	stepSummaries := make([]models.StepSummary, 0, len(outcome.Records))
	stepsSucceeded := 0
	stepsFailed := 0
	var firstFailure *models.StepSummary = nil

	for _, record := range outcome.Records {
		summary := models.StepSummary{
			StepId:     record.StepId,
			Kind:       record.Kind,
			ConnRole:   record.ConnRole,
			ConnTag:    record.ConnTag,
			Success:    record.Success,
			Error:      record.Error,
			StartTime:  record.StartTime,
			FinishTime: record.FinishTime,
			DurationMs: record.DurationMs,
			LogFile:    filepath.Join(logDirBaseName, fmt.Sprintf("%s.json", record.StepId)),
		}
		stepSummaries = append(stepSummaries, summary)

		if record.Success {
			stepsSucceeded++
		} else {
			stepsFailed++
			if firstFailure == nil {
				firstFailure = &stepSummaries[len(stepSummaries)-1]
			}
		}
	}

	overallStatus := "Success"
	if stepsFailed > 0 {
		overallStatus = "Failed"
	}
	if stepsFailed > 0 && stepsSucceeded > 0 {
		overallStatus = "Partial"
	}

	initiatorType := "user"
	if cmdName == "submit" || cmdName == "submit-bg" {
		initiatorType = "scheduler"
	}

	timingReport := ""
	if outcome.Timing != nil {
		timingReport = outcome.Timing.Report()
	}

	return models.RunSummary{
		RunId:        runId,
		RunStartTime: startTime.Format(time.RFC3339),
		Cmd:          cmdName,
		Toolbox:      cfg.Config.Toolbox,
		AdminConn:    cfg.Connections.Admin,
		Initiator: types.Initiator{
			Type:   initiatorType,
			Id:     os.Getenv("USER"),
			Tenant: host,
		},
		Steps:           stepSummaries,
		OverallStatus:   overallStatus,
		TotalDurationMs: time.Since(startTime).Milliseconds(),
		StepsSucceeded:  stepsSucceeded,
		StepsFailed:     stepsFailed,
		FirstFailure:    firstFailure,
		EditVersions:    outcome.EditVersions,
		TimingReport:    timingReport,
	}
}

// writeSummary writes the run summary to summary.json in the log directory.
// Returns an error if file operations fail.
func writeSummary(summary models.RunSummary, logDir string) error {
	formatted, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	summaryPath := filepath.Join(logDir, "summary.json")
	f, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file %s: %w", summaryPath, err)
	}
	defer f.Close()

	_, err = f.Write(formatted)
	if err != nil {
		return fmt.Errorf("failed to write summary file %s: %w", summaryPath, err)
	}

	return nil
}

// publishRunReport delivers a finished summary to every configured sink:
// summary.json on disk, the optional history database, and the optional
// email digest. Delivery failures are logged, never fatal - the maintenance
// itself already happened.
func publishRunReport(summary models.RunSummary, cfg *types.MaintenanceConfig, logDir string) {
	if err := writeSummary(summary, logDir); err != nil {
		log.Error().Err(err).Msg("Failed to write summary.json")
	}

	if cfg.Config.History != "" {
		store, err := history.Open(cfg.Config.History)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open history database")
		} else {
			defer store.Close()
			if err := store.RecordRun(stdctx.Background(), summary); err != nil {
				log.Error().Err(err).Msg("Failed to record run in history database")
			}
		}
	}

	if cfg.Report.Email.Enabled {
		if err := mailer.SendDigest(cfg.Report.Email, summary); err != nil {
			log.Error().Err(err).Msg("Failed to send email digest")
		} else {
			log.Info().Msgf("✓ Email digest sent to %v", cfg.Report.Email.To)
		}
	}
}
