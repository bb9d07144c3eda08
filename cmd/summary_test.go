package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/orchestrator"
	"github.com/SDFIdk/SDE-CRA/internal/timing"
	"github.com/SDFIdk/SDE-CRA/types"
)

var testLogDir = filepath.Join(".sdecra", "logs", "20260825T010000_run_test")

func summaryConfig() *types.MaintenanceConfig {
	cfg := &types.MaintenanceConfig{}
	cfg.Config.Toolbox = "gptool"
	cfg.Connections.Admin = "sys_SDE.sde"
	cfg.Connections.Owners = []string{"sys_BASE.sde"}
	return cfg
}

func outcomeWith(records ...models.StepExecutionRecord) *orchestrator.RunOutcome {
	return &orchestrator.RunOutcome{Records: records, Timing: timing.New()}
}

func successRecord(stepId string) models.StepExecutionRecord {
	return models.StepExecutionRecord{StepId: stepId, Kind: models.OpAnalyze, ConnRole: models.RoleAdmin, ConnTag: "SDE", Success: true, DurationMs: 1000}
}

func failedRecord(stepId, errMsg string) models.StepExecutionRecord {
	return models.StepExecutionRecord{StepId: stepId, Kind: models.OpCompress, ConnRole: models.RoleAdmin, ConnTag: "SDE", Success: false, Error: errMsg, DurationMs: 1000}
}

func TestGenerateRunSummaryOverallStatus(t *testing.T) {
	runId := uuid.New()
	startTime := time.Now()
	cfg := summaryConfig()

	tests := []struct {
		name       string
		outcome    *orchestrator.RunOutcome
		wantStatus string
	}{
		{
			name:       "All steps succeeded",
			outcome:    outcomeWith(successRecord("analyze-admin"), successRecord("analyze-owner-BASE")),
			wantStatus: "Success",
		},
		{
			name:       "All steps failed",
			outcome:    outcomeWith(failedRecord("compress", "lock held")),
			wantStatus: "Failed",
		},
		{
			name:       "Mixed outcome",
			outcome:    outcomeWith(failedRecord("compress", "lock held"), successRecord("analyze2-admin")),
			wantStatus: "Partial",
		},
		{
			name:       "Empty plan",
			outcome:    outcomeWith(),
			wantStatus: "Success",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := generateRunSummary(tt.outcome, runId, startTime, cfg, "run", testLogDir)
			assert.Equal(t, tt.wantStatus, summary.OverallStatus)
		})
	}
}

func TestGenerateRunSummaryFirstFailure(t *testing.T) {
	outcome := outcomeWith(
		successRecord("analyze1-admin"),
		failedRecord("compress", "lock held"),
		failedRecord("rebuild-admin", "timeout"),
	)

	summary := generateRunSummary(outcome, uuid.New(), time.Now(), summaryConfig(), "run", testLogDir)

	require.NotNil(t, summary.FirstFailure)
	assert.Equal(t, "compress", summary.FirstFailure.StepId)
	assert.Equal(t, "lock held", summary.FirstFailure.Error)
	assert.Equal(t, 1, summary.StepsSucceeded)
	assert.Equal(t, 2, summary.StepsFailed)
}

func TestGenerateRunSummaryStepOrderPreserved(t *testing.T) {
	outcome := outcomeWith(
		failedRecord("compress", "lock held"),
		successRecord("analyze2-admin"),
		successRecord("rebuild-admin"),
	)

	summary := generateRunSummary(outcome, uuid.New(), time.Now(), summaryConfig(), "run", testLogDir)

	require.Len(t, summary.Steps, 3)
	assert.Equal(t, "compress", summary.Steps[0].StepId)
	assert.Equal(t, "analyze2-admin", summary.Steps[1].StepId)
	assert.Equal(t, "rebuild-admin", summary.Steps[2].StepId)
}

func TestGenerateRunSummaryInitiator(t *testing.T) {
	outcome := outcomeWith(successRecord("compress"))

	user := generateRunSummary(outcome, uuid.New(), time.Now(), summaryConfig(), "run", testLogDir)
	assert.Equal(t, "user", user.Initiator.Type)

	bg := generateRunSummary(outcome, uuid.New(), time.Now(), summaryConfig(), "submit-bg", testLogDir)
	assert.Equal(t, "scheduler", bg.Initiator.Type)
}

func TestGenerateRunSummaryLogFilePaths(t *testing.T) {
	runId := uuid.New()

	// The submit parent named the directory; the background process starts
	// later, across a second boundary. The summary must point into the
	// directory that actually exists, not one reformatted from its own clock.
	dirName := "20260825T010000_submit_" + runId.String()
	logDir := filepath.Join(".sdecra", "logs", dirName)
	bgStartTime := time.Date(2026, 8, 25, 1, 0, 2, 0, time.UTC)

	outcome := outcomeWith(successRecord("compress"))

	summary := generateRunSummary(outcome, runId, bgStartTime, summaryConfig(), "submit-bg", logDir)
	assert.Equal(t, filepath.Join(dirName, "compress.json"), summary.Steps[0].LogFile)
}

func TestWriteSummary(t *testing.T) {
	logDir := t.TempDir()

	outcome := outcomeWith(successRecord("compress"))
	summary := generateRunSummary(outcome, uuid.New(), time.Now(), summaryConfig(), "run", logDir)

	require.NoError(t, writeSummary(summary, logDir))

	raw, err := os.ReadFile(filepath.Join(logDir, "summary.json"))
	require.NoError(t, err)

	var loaded models.RunSummary
	require.NoError(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, summary.RunId, loaded.RunId)
	assert.Equal(t, "Success", loaded.OverallStatus)
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, "compress", loaded.Steps[0].StepId)
}
