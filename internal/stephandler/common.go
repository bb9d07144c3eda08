package stephandler

import (
	"errors"
	"os"
	"time"

	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/types"
)

// newRecord builds the record skeleton shared by all handlers.
func newRecord(ctx *context.RunContext, step Step, startTime time.Time) *models.StepExecutionRecord {
	host, _ := os.Hostname()

	initiatorType := "user"
	if ctx.Cmd == "submit-bg" {
		initiatorType = "scheduler"
	}

	return &models.StepExecutionRecord{
		StepId:     step.Id,
		Kind:       step.Kind,
		ConnRole:   step.ConnRole,
		Connection: step.Conn,
		ConnTag:    step.ConnTag,
		RunId:      ctx.RunId,
		Cmd:        ctx.Cmd,
		Toolbox:    ctx.Config.Config.Toolbox,
		Initiator: types.Initiator{
			Type:   initiatorType,
			Id:     os.Getenv("USER"),
			Tenant: host,
		},
		StartTime: startTime.Format(time.RFC3339),
	}
}

// finalize stamps timing and maps the bridge outcome onto the record. A
// geoprocessing error becomes a failed record, never a propagated error.
func finalize(record *models.StepExecutionRecord, startTime time.Time, result *types.GPResult, err error) *models.StepExecutionRecord {
	record.FinishTime = time.Now().Format(time.RFC3339)
	record.DurationMs = time.Since(startTime).Milliseconds()
	record.Response = result

	if err == nil {
		record.Success = true
		return record
	}

	record.Success = false

	var gpErr *gptool.Error
	if errors.As(err, &gpErr) {
		record.Error = gpErr.Msg
		if record.Response == nil {
			record.Response = gpErr.Result
		}
	} else {
		record.Error = err.Error()
	}
	return record
}
