package context

import (
	"github.com/google/uuid"

	"github.com/SDFIdk/SDE-CRA/types"
)

// RunContext carries everything a maintenance run needs. It is built once
// per invocation and treated as read-only by the orchestrator.
type RunContext struct {
	RunId     uuid.UUID
	Config    *types.MaintenanceConfig
	ConfigDir string // Directory that holds sdecra.yml
	LogDir    string

	// Ops restricts the run to a subset of operations ("analyze",
	// "compress", "rebuild"). Empty means the full workflow.
	Ops []string

	// PerDataset splits each owner pass into one sub-step per dataset, so
	// slow datasets show up individually in the records and the timing
	// report.
	PerDataset bool

	Cmd string // "run", "submit-bg", "analyze", "compress", "rebuild"
}
