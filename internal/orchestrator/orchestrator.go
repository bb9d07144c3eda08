package orchestrator

import (
	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/stephandler"
	"github.com/SDFIdk/SDE-CRA/internal/timing"
)

// RunOutcome is everything a finished (or partially finished) run produced:
// one record per attempted sub-step in execution order, the edit versions
// observed before the run, and the phase timing breakdown.
type RunOutcome struct {
	Records      []models.StepExecutionRecord
	EditVersions []string
	Timing       *timing.Tracker
}

type Orchestrator interface {
	// Run executes the maintenance plan strictly sequentially. It only
	// returns an error for configuration problems detected before any step
	// executes; individual geoprocessing failures are recorded per step and
	// never abort the run.
	Run(ctx *context.RunContext, registry *stephandler.HandlerRegistry) (*RunOutcome, error)
}
