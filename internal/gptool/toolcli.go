package gptool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/types"
)

// ToolCLI drives the vendor geoprocessing bridge executable. Each call
// shells out to `<executable> <verb> <conn> [flags] --json` and parses the
// JSON result envelope the bridge prints on stdout.
type ToolCLI struct {
	executable string
}

// NewToolCLI creates a Geoprocessor backed by the named bridge executable.
func NewToolCLI(executable string) *ToolCLI {
	if executable == "" {
		executable = "gptool"
	}
	return &ToolCLI{executable: executable}
}

var _ Geoprocessor = (*ToolCLI)(nil)

// runTool invokes `<executable> <args...>` and returns stdout bytes for
// parsing, or an error carrying whatever the bridge printed.
func (t *ToolCLI) runTool(args ...string) ([]byte, error) {
	cmd := exec.Command(t.executable, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	log.Debug().Msgf("Running: %s %s", t.executable, strings.Join(args, " "))

	err := cmd.Run()
	if err != nil {
		return outBuf.Bytes(), fmt.Errorf("%s %v failed: %w\n%s\n%s", t.executable, args, err, errBuf.String(), outBuf.String())
	}
	return outBuf.Bytes(), nil
}

// call runs a bridge verb and converts any failure into a *Error. The
// bridge reports geoprocessing failures in-band (success=false with a
// non-zero process exit), so both the exec error path and the envelope
// error path funnel through here.
func (t *ToolCLI) call(verb, conn string, extraArgs ...string) (*types.GPResult, error) {
	args := append([]string{verb, conn}, extraArgs...)
	args = append(args, "--json")

	raw, runErr := t.runTool(args...)

	result, parseErr := ParseResult(raw)
	if parseErr != nil {
		if runErr != nil {
			return nil, &Error{Tool: verb, Workspace: conn, Msg: runErr.Error()}
		}
		return nil, &Error{Tool: verb, Workspace: conn, Msg: parseErr.Error()}
	}

	if !result.Success {
		msg := result.GetError()
		if msg == "" {
			msg = result.Message
		}
		if msg == "" && runErr != nil {
			msg = runErr.Error()
		}
		return result, &Error{Tool: verb, Workspace: conn, Msg: msg, Result: result}
	}

	return result, nil
}

// ParseResult decodes a bridge JSON envelope.
func ParseResult(raw []byte) (*types.GPResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("empty response from bridge")
	}

	var result types.GPResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unexpected bridge response structure: %w", err)
	}
	return &result, nil
}

func (t *ToolCLI) AnalyzeDatasets(conn string, call AnalyzeCall) (*types.GPResult, error) {
	args := []string{"--scope", scopeFlag(call.System)}

	if len(call.Datasets) > 0 {
		args = append(args, "--datasets", strings.Join(call.Datasets, ","))
	}

	var stats []string
	if call.Base {
		stats = append(stats, "BASE")
	}
	if call.Delta {
		stats = append(stats, "DELTA")
	}
	if call.Archive {
		stats = append(stats, "ARCHIVE")
	}
	if len(stats) > 0 {
		args = append(args, "--stats", strings.Join(stats, ","))
	}

	return t.call("analyze-datasets", conn, args...)
}

func (t *ToolCLI) Compress(conn string) (*types.GPResult, error) {
	return t.call("compress", conn)
}

func (t *ToolCLI) RebuildIndexes(conn string, call RebuildCall) (*types.GPResult, error) {
	args := []string{"--scope", scopeFlag(call.System)}

	if len(call.Datasets) > 0 {
		args = append(args, "--datasets", strings.Join(call.Datasets, ","))
	}

	scope := call.Scope
	if scope == "" {
		scope = "ALL"
	}
	args = append(args, "--indexes", strings.ToUpper(scope))

	return t.call("rebuild-indexes", conn, args...)
}

func (t *ToolCLI) ListDatasets(conn string) ([]string, error) {
	result, err := t.call("list-datasets", conn)
	if err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, &Error{Tool: "list-datasets", Workspace: conn, Msg: "bridge returned no data block", Result: result}
	}
	return result.Data.Datasets, nil
}

func (t *ToolCLI) ListVersions(conn string) ([]string, error) {
	result, err := t.call("list-versions", conn)
	if err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, &Error{Tool: "list-versions", Workspace: conn, Msg: "bridge returned no data block", Result: result}
	}
	return result.Data.Versions, nil
}

func (t *ToolCLI) AcceptConnections(conn string, accept bool) error {
	_, err := t.call("accept-connections", conn, "--accept", fmt.Sprintf("%t", accept))
	return err
}

func (t *ToolCLI) DisconnectAll(conn string) error {
	_, err := t.call("disconnect", conn, "--all")
	return err
}

func scopeFlag(system bool) string {
	if system {
		return "SYSTEM"
	}
	return "NO_SYSTEM"
}
