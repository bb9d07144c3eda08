package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/SDE-CRA/types"
)

func createValidConfig() *types.MaintenanceConfig {
	cfg := &types.MaintenanceConfig{}
	cfg.Config.Toolbox = "gptool"
	cfg.Connections.Admin = `C:\data\local\sys_SDE.sde`
	cfg.Connections.Owners = []string{`..\DatabaseConnections\sys_BASE.sde`}
	cfg.Rebuild.Scope = "ALL"
	return cfg
}

func modifyConfig(cfg *types.MaintenanceConfig, modify func(*types.MaintenanceConfig)) *types.MaintenanceConfig {
	modify(cfg)
	return cfg
}

func boolPtr(b bool) *bool { return &b }

func TestValidateMaintenanceConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      *types.MaintenanceConfig
		shouldError bool
		errContains string
	}{
		{
			name:        "Valid config",
			config:      createValidConfig(),
			shouldError: false,
		},
		{
			name:        "Missing admin connection",
			config:      modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) { c.Connections.Admin = "" }),
			shouldError: true,
			errContains: "field 'connections.admin' is required",
		},
		{
			name:        "Admin connection without .sde extension",
			config:      modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) { c.Connections.Admin = "sys_SDE.txt" }),
			shouldError: true,
			errContains: "must have a .sde extension",
		},
		{
			name:        "No owner connections",
			config:      modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) { c.Connections.Owners = nil }),
			shouldError: true,
			errContains: "at least one entry is required under 'connections.owners'",
		},
		{
			name: "Owner duplicates admin",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Connections.Owners = []string{c.Connections.Admin}
			}),
			shouldError: true,
			errContains: "duplicates the admin connection",
		},
		{
			name: "Duplicate owner connections",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Connections.Owners = append(c.Connections.Owners, c.Connections.Owners[0])
			}),
			shouldError: true,
			errContains: "duplicate owner connection",
		},
		{
			name: "Invalid tag pattern",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Connections.TagPattern = "sys_([unclosed"
			}),
			shouldError: true,
			errContains: "connections.tag_pattern: invalid regular expression",
		},
		{
			name: "All analyze targets disabled",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Analyze.Base = boolPtr(false)
				c.Analyze.Delta = boolPtr(false)
				c.Analyze.Archive = boolPtr(false)
			}),
			shouldError: true,
			errContains: "at least one of 'analyze.base', 'analyze.delta', 'analyze.archive'",
		},
		{
			name: "Invalid rebuild scope",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Rebuild.Scope = "SOME"
			}),
			shouldError: true,
			errContains: "field 'rebuild.scope' has invalid value",
		},
		{
			name: "Rebuild scope is case-insensitive",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Rebuild.Scope = "changed"
			}),
			shouldError: false,
		},
		{
			name: "Email enabled without host",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Report.Email.Enabled = true
				c.Report.Email.Port = 25
				c.Report.Email.From = "batch@organisation.com"
				c.Report.Email.To = []string{"ops@organisation.com"}
			}),
			shouldError: true,
			errContains: "field 'report.email.host' is required",
		},
		{
			name: "Email enabled without recipients",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Report.Email.Enabled = true
				c.Report.Email.Host = "mail.organisation.com"
				c.Report.Email.Port = 25
				c.Report.Email.From = "batch@organisation.com"
			}),
			shouldError: true,
			errContains: "at least one recipient is required",
		},
		{
			name: "Empty recipient entry",
			config: modifyConfig(createValidConfig(), func(c *types.MaintenanceConfig) {
				c.Report.Email.Enabled = true
				c.Report.Email.Host = "mail.organisation.com"
				c.Report.Email.Port = 25
				c.Report.Email.From = "batch@organisation.com"
				c.Report.Email.To = []string{" "}
			}),
			shouldError: true,
			errContains: "recipient is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaintenanceConfig(tt.config)
			if tt.shouldError {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadMaintenanceConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sdecra.yml")

	content := `
connections:
  admin: sys_SDE.sde
  owners:
    - sys_BASE.sde
    - sys_s100.sde
  tag_pattern: 'sys_(BASE|s\d+m?)'

analyze:
  archive: false

report:
  email:
    enabled: true
    host: mail.organisation.com
    from: "sdecra <batch@organisation.com>"
    to:
      - ops@organisation.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, configDir, err := LoadMaintenanceConfig(path)
	require.NoError(t, err)

	assert.Equal(t, dir, configDir)
	assert.Equal(t, DefaultToolbox, cfg.Config.Toolbox, "toolbox should default")
	assert.Equal(t, "ALL", cfg.Rebuild.Scope, "rebuild scope should default")
	assert.Equal(t, 25, cfg.Report.Email.Port, "email port should default")
	assert.Equal(t, []string{"sys_BASE.sde", "sys_s100.sde"}, cfg.Connections.Owners)

	assert.True(t, cfg.Analyze.BaseEnabled())
	assert.True(t, cfg.Analyze.DeltaEnabled())
	assert.False(t, cfg.Analyze.ArchiveEnabled())
}

func TestLoadMaintenanceConfigMissingFile(t *testing.T) {
	_, _, err := LoadMaintenanceConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadMaintenanceConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sdecra.yml")
	require.NoError(t, os.WriteFile(path, []byte("connections: [broken"), 0644))

	_, _, err := LoadMaintenanceConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
