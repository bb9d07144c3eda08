package stephandler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
)

// CompressHandler runs the storage compaction operation. It only ever
// receives an admin-bound step.
type CompressHandler struct{}

func (h *CompressHandler) Kind() string {
	return models.OpCompress
}

func (h *CompressHandler) Execute(ctx *context.RunContext, gp gptool.Geoprocessor, step Step, logger zerolog.Logger) *models.StepExecutionRecord {
	startTime := time.Now()
	record := newRecord(ctx, step, startTime)

	logger.Info().Msg("Compressing geodatabase...")

	result, err := gp.Compress(step.Conn)
	return finalize(record, startTime, result, err)
}
