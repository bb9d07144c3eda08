package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Helper to create directory structure
func MkDir(targetDir string, parts ...string) {
	path := filepath.Join(append([]string{targetDir}, parts...)...)
	err := os.MkdirAll(path, 0755)
	cobra.CheckErr(err)
}

// Helper to avoid overwriting a file or directory
func MustNotExist(path string) {
	if _, err := os.Stat(path); err == nil {
		cobra.CheckErr(fmt.Errorf("refusing to overwrite existing file or directory: %s", path))
	}
}

// ConnTag extracts a short identifier from a connection file path using
// pattern. It returns the first capture group when the pattern matches,
// otherwise the connection file's base name without extension. An empty
// pattern skips matching entirely.
func ConnTag(pattern, conn string) string {
	fallback := strings.TrimSuffix(filepath.Base(conn), filepath.Ext(conn))
	if pattern == "" {
		return fallback
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fallback
	}

	m := re.FindStringSubmatch(conn)
	if m == nil {
		return fallback
	}
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

// ValidateConnectionFile checks that a connection descriptor looks like an
// SDE connection file reference. The file itself may live on a machine we
// cannot stat, so only the shape is validated.
func ValidateConnectionFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("connection file path is empty")
	}
	if !strings.EqualFold(filepath.Ext(path), ".sde") {
		return fmt.Errorf("connection file %q must have a .sde extension", path)
	}
	return nil
}
