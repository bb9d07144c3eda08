package types

// MaintenanceConfig is the parsed representation of sdecra.yml.
type MaintenanceConfig struct {
	Config struct {
		// Toolbox is the vendor geoprocessing bridge executable invoked for
		// every maintenance operation. Defaults to "gptool".
		Toolbox string `yaml:"toolbox,omitempty"`

		// InitialAnalyze enables the optional warm-up analyze pass before
		// Compress. Esri documents it as a compress speed-up, but in
		// practice it can take longer than it saves, so it is off by default.
		InitialAnalyze bool `yaml:"initial_analyze,omitempty"`

		// BlockConnections refuses new connections to the geodatabase for
		// the duration of the run.
		BlockConnections bool `yaml:"block_connections,omitempty"`

		// KickUsers disconnects all sessions before the run starts.
		KickUsers bool `yaml:"kick_users,omitempty"`

		// History is an optional SQLite file recording run summaries.
		History string `yaml:"history,omitempty"`
	} `yaml:"config"`

	Connections Connections `yaml:"connections"`

	Analyze AnalyzeOptions `yaml:"analyze,omitempty"`
	Rebuild RebuildOptions `yaml:"rebuild,omitempty"`

	Report ReportConfig `yaml:"report,omitempty"`
}

// Connections names the two privilege levels a maintenance run needs.
// Compress only ever runs against Admin; Analyze and RebuildIndexes run
// against Admin and once per owner entry, with different parameters.
type Connections struct {
	Admin  string   `yaml:"admin"`
	Owners []string `yaml:"owners"`

	// TagPattern extracts a short identifier from a connection file path
	// for log lines, step ids and the email subject,
	// e.g. `sys_(BASE|s\d+m?)` against "sys_s100.sde".
	TagPattern string `yaml:"tag_pattern,omitempty"`
}

// AnalyzeOptions selects which statistics the data-owner analyze pass
// refreshes. The admin pass always uses the SYSTEM scope and ignores these.
type AnalyzeOptions struct {
	Base    *bool `yaml:"base,omitempty"`
	Delta   *bool `yaml:"delta,omitempty"`
	Archive *bool `yaml:"archive,omitempty"`
}

// RebuildOptions controls the index rebuild scope for the data-owner pass.
type RebuildOptions struct {
	Scope string `yaml:"scope,omitempty"` // "ALL" (default) or "CHANGED"
}

type ReportConfig struct {
	Email EmailConfig `yaml:"email,omitempty"`
}

// EmailConfig describes the post-run SMTP digest. The digest is buffered
// for the whole run and flushed once, after summary.json is written.
type EmailConfig struct {
	Enabled       bool     `yaml:"enabled,omitempty"`
	Host          string   `yaml:"host,omitempty"`
	Port          int      `yaml:"port,omitempty"`
	From          string   `yaml:"from,omitempty"`
	To            []string `yaml:"to,omitempty"`
	SubjectPrefix string   `yaml:"subject_prefix,omitempty"`
}

// Initiator stores information about who started a maintenance run - an
// operator at a terminal or an OS scheduler firing `sdecra submit`.
type Initiator struct {
	Type   string `json:"type"` // "user", "scheduler"
	Id     string `json:"id"`
	Tenant string `json:"tenant"` // host name
}

// BaseEnabled returns the effective value of the base statistics flag.
func (a AnalyzeOptions) BaseEnabled() bool { return a.Base == nil || *a.Base }

// DeltaEnabled returns the effective value of the delta statistics flag.
func (a AnalyzeOptions) DeltaEnabled() bool { return a.Delta == nil || *a.Delta }

// ArchiveEnabled returns the effective value of the archive statistics flag.
func (a AnalyzeOptions) ArchiveEnabled() bool { return a.Archive == nil || *a.Archive }
