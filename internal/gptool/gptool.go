package gptool

import (
	"fmt"

	"github.com/SDFIdk/SDE-CRA/types"
)

// Geoprocessor abstracts the vendor geoprocessing toolbox. Every method is
// a black-box remote call into the geodatabase engine; sdecra knows nothing
// about the algorithms behind them, only which connection and options each
// one takes.
type Geoprocessor interface {
	// AnalyzeDatasets refreshes statistics on the workspace. The admin pass
	// uses the SYSTEM scope; owner passes use NO_SYSTEM plus a dataset list
	// and statistics target flags.
	AnalyzeDatasets(conn string, call AnalyzeCall) (*types.GPResult, error)

	// Compress collapses versioned deltas. Admin connection only.
	Compress(conn string) (*types.GPResult, error)

	// RebuildIndexes reconstructs indexes after compression. Admin passes
	// use the SYSTEM scope; owner passes take a dataset list.
	RebuildIndexes(conn string, call RebuildCall) (*types.GPResult, error)

	// ListDatasets returns the tables, feature classes and rasters owned by
	// the workspace user, including feature classes inside feature datasets.
	ListDatasets(conn string) ([]string, error)

	// ListVersions returns the names of all versions visible on the
	// connection. Anything but DEFAULT prevents optimal compression.
	ListVersions(conn string) ([]string, error)

	// AcceptConnections toggles whether the geodatabase accepts new
	// connections. Requires an administrative connection.
	AcceptConnections(conn string, accept bool) error

	// DisconnectAll kicks every connected session. Requires an
	// administrative connection.
	DisconnectAll(conn string) error
}

// AnalyzeCall carries the per-pass parameters of AnalyzeDatasets.
type AnalyzeCall struct {
	// System selects the SYSTEM scope. Only valid for administrators; the
	// owner pass must use NO_SYSTEM or the vendor tool errors out.
	System   bool
	Datasets []string
	Base     bool
	Delta    bool
	Archive  bool
}

// RebuildCall carries the per-pass parameters of RebuildIndexes.
type RebuildCall struct {
	System   bool
	Datasets []string
	Scope    string // "ALL" or "CHANGED"
}

// Error is a recoverable geoprocessing failure: the orchestrator records it
// on the failing sub-step and continues with the next one.
type Error struct {
	Tool      string
	Workspace string
	Msg       string
	Result    *types.GPResult // full envelope when the bridge produced one
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed on %s: %s", e.Tool, e.Workspace, e.Msg)
}
