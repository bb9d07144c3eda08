package stephandler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
)

// AnalyzeHandler runs the statistics-refresh operation. The admin pass uses
// the SYSTEM scope only; the owner pass carries the dataset list and the
// base/delta/archive target flags.
type AnalyzeHandler struct{}

func (h *AnalyzeHandler) Kind() string {
	return models.OpAnalyze
}

func (h *AnalyzeHandler) Execute(ctx *context.RunContext, gp gptool.Geoprocessor, step Step, logger zerolog.Logger) *models.StepExecutionRecord {
	startTime := time.Now()
	record := newRecord(ctx, step, startTime)

	logger.Info().Str("scope", scopeName(step.Analyze.System)).Int("datasets", len(step.Analyze.Datasets)).Msg("Analyzing datasets...")

	result, err := gp.AnalyzeDatasets(step.Conn, step.Analyze)
	return finalize(record, startTime, result, err)
}

func scopeName(system bool) string {
	if system {
		return "SYSTEM"
	}
	return "NO_SYSTEM"
}
