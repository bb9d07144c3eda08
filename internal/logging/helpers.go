package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/SDFIdk/SDE-CRA/internal/models"
)

// CreateLogDir returns a full path like
// ".sdecra/logs/20250423T213245_run_3c43e9f4-9026-4d04-ba06-054e8903e80a"
func CreateLogDir(runId uuid.UUID, runStartTime time.Time, cmd string) (string, error) {
	timestampStr := runStartTime.Format("20060102T150405")

	dirName := fmt.Sprintf("%s_%s_%s", timestampStr, cmd, runId)
	fullPath := filepath.Join(".sdecra", "logs", dirName)

	err := os.MkdirAll(fullPath, os.ModePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create log directory '%s': %w", fullPath, err)
	}
	return fullPath, nil
}

// SaveStepExecutionRecord stores the detailed record for a single sub-step.
// Filename: STEPID.json (e.g. analyze2-owner-s100.json)
func SaveStepExecutionRecord(logDir string, record models.StepExecutionRecord) error {
	fileName := fmt.Sprintf("%s.json", record.StepId)
	filePath := filepath.Join(logDir, fileName)

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create step log file %s: %w", filePath, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to encode step record to %s: %w", filePath, err)
	}
	return nil
}
