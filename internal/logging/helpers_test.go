package logging

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
)

func TestCreateLogDir(t *testing.T) {
	t.Chdir(t.TempDir())

	runId := uuid.MustParse("3c43e9f4-9026-4d04-ba06-054e8903e80a")
	startTime := time.Date(2026, 8, 25, 1, 30, 0, 0, time.UTC)

	dir, err := CreateLogDir(runId, startTime, "run")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(".sdecra", "logs", "20260825T013000_run_3c43e9f4-9026-4d04-ba06-054e8903e80a"), dir)
	assert.DirExists(t, dir)
}

func TestSaveStepExecutionRecord(t *testing.T) {
	logDir := t.TempDir()

	record := models.StepExecutionRecord{
		StepId:   "analyze2-owner-s100",
		Kind:     models.OpAnalyze,
		ConnRole: models.RoleOwner,
		ConnTag:  "s100",
		RunId:    uuid.New(),
		Success:  true,
	}

	require.NoError(t, SaveStepExecutionRecord(logDir, record))

	raw, err := os.ReadFile(filepath.Join(logDir, "analyze2-owner-s100.json"))
	require.NoError(t, err)

	var loaded models.StepExecutionRecord
	require.NoError(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, record.StepId, loaded.StepId)
	assert.Equal(t, record.RunId, loaded.RunId)
	assert.True(t, loaded.Success)
}
