package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SDFIdk/SDE-CRA/internal/utils"
	"github.com/SDFIdk/SDE-CRA/types"
)

const DefaultToolbox = "gptool"

var allowedRebuildScopes = map[string]bool{
	"ALL":     true,
	"CHANGED": true,
}

// LoadMaintenanceConfig reads, parses and validates an sdecra.yml file.
// It returns the config and the directory containing it. A validation
// failure is a configuration error: nothing may be executed after one.
func LoadMaintenanceConfig(filename string) (*types.MaintenanceConfig, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var cfg types.MaintenanceConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}

	applyDefaults(&cfg)

	if err := ValidateMaintenanceConfig(&cfg); err != nil {
		return nil, "", fmt.Errorf("validation error in %s: %w", filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path %s: %w", filename, err)
	}

	return &cfg, filepath.Dir(absPath), nil
}

func applyDefaults(cfg *types.MaintenanceConfig) {
	if cfg.Config.Toolbox == "" {
		cfg.Config.Toolbox = DefaultToolbox
	}
	if cfg.Rebuild.Scope == "" {
		cfg.Rebuild.Scope = "ALL"
	}
	if cfg.Report.Email.Port == 0 {
		cfg.Report.Email.Port = 25
	}
}

// ValidateMaintenanceConfig checks the loaded configuration and reports all
// problems at once, joined into a single error.
func ValidateMaintenanceConfig(cfg *types.MaintenanceConfig) error {
	var errs []string

	// --- Validate 'connections' section ---

	if cfg.Connections.Admin == "" {
		errs = append(errs, "field 'connections.admin' is required")
	} else if err := utils.ValidateConnectionFile(cfg.Connections.Admin); err != nil {
		errs = append(errs, fmt.Sprintf("connections.admin: %v", err))
	}

	if len(cfg.Connections.Owners) == 0 {
		errs = append(errs, "at least one entry is required under 'connections.owners'")
	}

	seenOwners := make(map[string]bool)
	for i, owner := range cfg.Connections.Owners {
		ownerCtx := fmt.Sprintf("connections.owners[%d]", i)

		if err := utils.ValidateConnectionFile(owner); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ownerCtx, err))
			continue
		}
		if owner == cfg.Connections.Admin {
			errs = append(errs, fmt.Sprintf("%s: owner connection %q duplicates the admin connection", ownerCtx, owner))
		}
		if seenOwners[owner] {
			errs = append(errs, fmt.Sprintf("%s: duplicate owner connection %q", ownerCtx, owner))
		}
		seenOwners[owner] = true
	}

	if cfg.Connections.TagPattern != "" {
		if _, err := regexp.Compile(cfg.Connections.TagPattern); err != nil {
			errs = append(errs, fmt.Sprintf("connections.tag_pattern: invalid regular expression: %v", err))
		}
	}

	// --- Validate operation options ---

	if !cfg.Analyze.BaseEnabled() && !cfg.Analyze.DeltaEnabled() && !cfg.Analyze.ArchiveEnabled() {
		errs = append(errs, "at least one of 'analyze.base', 'analyze.delta', 'analyze.archive' must be enabled")
	}

	if cfg.Rebuild.Scope != "" && !allowedRebuildScopes[strings.ToUpper(cfg.Rebuild.Scope)] {
		errs = append(errs, fmt.Sprintf("field 'rebuild.scope' has invalid value %q; allowed values are: ALL, CHANGED", cfg.Rebuild.Scope))
	}

	// --- Validate 'report.email' section ---

	email := cfg.Report.Email
	if email.Enabled {
		if email.Host == "" {
			errs = append(errs, "field 'report.email.host' is required when email reporting is enabled")
		}
		if email.Port < 0 || email.Port > 65535 {
			errs = append(errs, fmt.Sprintf("field 'report.email.port' has invalid value %d", email.Port))
		}
		if email.From == "" {
			errs = append(errs, "field 'report.email.from' is required when email reporting is enabled")
		}
		if len(email.To) == 0 {
			errs = append(errs, "at least one recipient is required under 'report.email.to'")
		}
		for i, rcpt := range email.To {
			if strings.TrimSpace(rcpt) == "" {
				errs = append(errs, fmt.Sprintf("report.email.to[%d]: recipient is empty", i))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("sdecra configuration validation failed:\n- " + strings.Join(errs, "\n- "))
	}

	return nil
}
