package stephandler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
)

// RebuildHandler runs the index reconstruction operation. The admin pass
// uses the SYSTEM scope; the owner pass carries the dataset list. A single
// locked layer fails the step but never the run.
type RebuildHandler struct{}

func (h *RebuildHandler) Kind() string {
	return models.OpRebuild
}

func (h *RebuildHandler) Execute(ctx *context.RunContext, gp gptool.Geoprocessor, step Step, logger zerolog.Logger) *models.StepExecutionRecord {
	startTime := time.Now()
	record := newRecord(ctx, step, startTime)

	logger.Info().Str("scope", scopeName(step.Rebuild.System)).Int("datasets", len(step.Rebuild.Datasets)).Msg("Rebuilding indexes...")

	result, err := gp.RebuildIndexes(step.Conn, step.Rebuild)
	return finalize(record, startTime, result, err)
}
