package models

import (
	"github.com/google/uuid"

	"github.com/SDFIdk/SDE-CRA/types"
)

// Operation kinds a maintenance plan is built from. The vendor tools behind
// them are opaque; sdecra only knows their names and connection rules.
const (
	OpAnalyze  = "analyze"
	OpCompress = "compress"
	OpRebuild  = "rebuild"
)

// Connection roles. Compress only ever runs as RoleAdmin.
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// RunSummary holds the overall results of one maintenance run. It is the
// report consumed by the email digest and the history store, and is written
// to summary.json in the run's log directory.
type RunSummary struct {
	RunId           uuid.UUID       `json:"run_id"`
	RunStartTime    string          `json:"run_start_time"`
	Cmd             string          `json:"cmd"`
	Toolbox         string          `json:"toolbox"`
	AdminConn       string          `json:"admin_conn"`
	Initiator       types.Initiator `json:"initiator"`
	Steps           []StepSummary   `json:"steps"`
	OverallStatus   string          `json:"overall_status"` // "Success", "Failed", "Partial"
	TotalDurationMs int64           `json:"total_duration_ms"`
	StepsSucceeded  int             `json:"steps_succeeded"`
	StepsFailed     int             `json:"steps_failed"`
	FirstFailure    *StepSummary    `json:"first_failure,omitempty"`

	// EditVersions lists versions other than DEFAULT found before the run.
	// Any entry here prevents optimal compression.
	EditVersions []string `json:"edit_versions,omitempty"`

	// TimingReport is the per-phase duration breakdown.
	TimingReport string `json:"timing_report,omitempty"`
}

// StepSummary is the concise per-sub-step view kept in the RunSummary.
type StepSummary struct {
	StepId     string `json:"step_id"` // e.g. "analyze2-owner-s100"
	Kind       string `json:"kind"`
	ConnRole   string `json:"conn_role"`
	ConnTag    string `json:"conn_tag"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	StartTime  string `json:"start_time"`  // RFC3339
	FinishTime string `json:"finish_time"` // RFC3339
	DurationMs int64  `json:"duration_ms"`
	LogFile    string `json:"log_file"` // relative path to the detailed record
}

// StepExecutionRecord contains ALL information about a single sub-step.
// One record per attempted sub-step, in execution order, regardless of
// individual failures. Saved to the run log dir as STEPID.json.
type StepExecutionRecord struct {
	StepId     string    `json:"step_id"`
	Kind       string    `json:"kind"`
	ConnRole   string    `json:"conn_role"`
	Connection string    `json:"connection"`
	ConnTag    string    `json:"conn_tag"`
	RunId      uuid.UUID `json:"run_id"`
	Cmd        string    `json:"cmd"`
	Toolbox    string    `json:"toolbox"`

	Initiator types.Initiator `json:"initiator"`

	// Execution timing
	StartTime  string `json:"start_time"`
	FinishTime string `json:"finish_time"`
	DurationMs int64  `json:"duration_ms"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Full bridge response, when the call got far enough to produce one.
	Response *types.GPResult `json:"response,omitempty"`
}
