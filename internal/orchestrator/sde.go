package orchestrator

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/SDE-CRA/internal/config"
	"github.com/SDFIdk/SDE-CRA/internal/context"
	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/logging"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/stephandler"
	"github.com/SDFIdk/SDE-CRA/internal/timing"
	"github.com/SDFIdk/SDE-CRA/internal/utils"
	"github.com/SDFIdk/SDE-CRA/types"
)

type sdeOrchestrator struct {
	gp gptool.Geoprocessor
}

// NewSDEOrchestrator creates an orchestrator driving the given
// geoprocessing bridge.
func NewSDEOrchestrator(gp gptool.Geoprocessor) Orchestrator {
	return &sdeOrchestrator{gp: gp}
}

// Run implements the fixed maintenance workflow. The vendor tools hold
// exclusive schema locks, so sub-steps execute strictly one after another;
// there is deliberately no concurrency and no retry here. Operators re-run
// the whole workflow if a step fails.
func (o *sdeOrchestrator) Run(ctx *context.RunContext, registry *stephandler.HandlerRegistry) (*RunOutcome, error) {
	cfg := ctx.Config
	if cfg == nil {
		return nil, fmt.Errorf("orchestration failed: no configuration in run context")
	}
	// Re-validate so a caller constructing the context by hand cannot get
	// past the configuration boundary. Nothing executes after a failure here.
	if err := config.ValidateMaintenanceConfig(cfg); err != nil {
		return nil, fmt.Errorf("orchestration failed: %w", err)
	}

	runLogger := log.With().Str("run_id", ctx.RunId.String()).Logger()

	host, _ := os.Hostname()
	runLogger.Info().Msgf("Starting geodatabase maintenance on %s", host)
	runLogger.Info().Msgf("Admin connection: %s", cfg.Connections.Admin)
	runLogger.Info().Msgf("Owner connections: %v", cfg.Connections.Owners)

	tracker := timing.New()
	outcome := &RunOutcome{Timing: tracker}

	// --- Survey edit versions ---

	tracker.Start("initialize")
	outcome.EditVersions = o.surveyEditVersions(ctx)
	tracker.Stop("initialize")

	// --- Optionally block new connections / kick sessions ---

	if cfg.Config.BlockConnections {
		if err := o.gp.AcceptConnections(cfg.Connections.Admin, false); err != nil {
			runLogger.Error().Err(err).Msg("Failed to block new connections; continuing unblocked")
		} else {
			runLogger.Info().Msg("Geodatabase is no longer accepting connections")
			defer func() {
				if err := o.gp.AcceptConnections(cfg.Connections.Admin, true); err != nil {
					runLogger.Error().Err(err).Msg("Failed to re-enable connections; manual intervention required")
				} else {
					runLogger.Info().Msg("Geodatabase is accepting connections again")
				}
			}()
		}
	}

	if cfg.Config.KickUsers {
		if err := o.gp.DisconnectAll(cfg.Connections.Admin); err != nil {
			runLogger.Error().Err(err).Msg("Failed to disconnect sessions")
		} else {
			runLogger.Info().Msg("Disconnected all sessions")
		}
	}

	// --- Gather dataset lists per owner ---

	ownerDatasets := make(map[string][]string)
	if o.needsOwnerPasses(ctx) {
		tracker.Start("list_data")
		for _, owner := range cfg.Connections.Owners {
			tag := utils.ConnTag(cfg.Connections.TagPattern, owner)
			datasets, err := o.gp.ListDatasets(owner)
			if err != nil {
				runLogger.Error().Err(err).Str("conn", tag).Msg("Failed to list datasets; skipping owner passes for this connection")
				continue
			}
			if len(datasets) == 0 {
				runLogger.Info().Str("conn", tag).Msg("Skipping empty workspace")
				continue
			}
			runLogger.Debug().Str("conn", tag).Msgf("Found %d datasets", len(datasets))
			ownerDatasets[owner] = datasets
		}
		tracker.Stop("list_data")
	}

	// --- Build and execute the plan ---

	plan := BuildPlan(cfg, ctx.Ops, ownerDatasets, ctx.PerDataset)
	if len(plan) == 0 {
		runLogger.Info().Msg("Nothing to do for the requested operations.")
		return outcome, nil
	}
	runLogger.Debug().Msgf("Maintenance plan has %d sub-steps", len(plan))

	tracker.Start("main")
	for _, step := range plan {
		stepLogger := runLogger.With().Str("step_id", step.Id).Str("conn", step.ConnTag).Logger()

		handler, exists := registry.Get(step.Kind)
		if !exists {
			stepLogger.Error().Str("kind", step.Kind).Msg("Critical: no handler registered for operation kind")
			outcome.Records = append(outcome.Records, o.noHandlerRecord(ctx, step))
			continue
		}

		tracker.Start(step.Id)
		record := handler.Execute(ctx, o.gp, step, stepLogger)
		tracker.Stop(step.Id)

		if record.Success {
			stepLogger.Info().Int64("duration_ms", record.DurationMs).Msg("✓ Step succeeded")
		} else {
			// A failed Compress (e.g. a held lock) must not stop the
			// Analyze/Rebuild passes; they still provide value on their own.
			stepLogger.Error().Str("error", record.Error).Msg("✖ Step failed, continuing with next step")
		}

		outcome.Records = append(outcome.Records, *record)

		if ctx.LogDir != "" {
			if err := logging.SaveStepExecutionRecord(ctx.LogDir, *record); err != nil {
				stepLogger.Error().Err(err).Msg("Failed to save step execution record")
			}
		}
	}
	tracker.Stop("main")

	runLogger.Info().Msg("✓ Maintenance plan finished.")
	return outcome, nil
}

// surveyEditVersions lists versions per owner connection and returns the
// ones that are not DEFAULT. Listing failures are logged and ignored: the
// survey is advisory, never a reason to abort maintenance.
func (o *sdeOrchestrator) surveyEditVersions(ctx *context.RunContext) []string {
	cfg := ctx.Config
	var editVersions []string

	for _, owner := range cfg.Connections.Owners {
		tag := utils.ConnTag(cfg.Connections.TagPattern, owner)
		versions, err := o.gp.ListVersions(owner)
		if err != nil {
			log.Warn().Err(err).Str("conn", tag).Msg("Failed to list versions")
			continue
		}

		var extra []string
		for _, v := range versions {
			if strings.EqualFold(v, "DEFAULT") || strings.HasSuffix(strings.ToUpper(v), ".DEFAULT") {
				continue
			}
			extra = append(extra, v)
		}

		if len(extra) > 0 {
			log.Warn().Str("conn", tag).Msgf("Current edit versions (any but DEFAULT will prevent optimal compression): %v", extra)
			editVersions = append(editVersions, extra...)
		} else {
			log.Info().Str("conn", tag).Msg("No edit versions.")
		}
	}

	return editVersions
}

// needsOwnerPasses reports whether the requested operations include any
// pass that iterates owner connections.
func (o *sdeOrchestrator) needsOwnerPasses(ctx *context.RunContext) bool {
	if len(ctx.Ops) == 0 {
		return true
	}
	return slices.Contains(ctx.Ops, models.OpAnalyze) || slices.Contains(ctx.Ops, models.OpRebuild)
}

// noHandlerRecord builds the failed record for a plan step whose operation
// kind has no registered handler. With the default registry this indicates
// an initialization bug, not an operator mistake.
func (o *sdeOrchestrator) noHandlerRecord(ctx *context.RunContext, step stephandler.Step) models.StepExecutionRecord {
	host, _ := os.Hostname()
	now := time.Now().Format(time.RFC3339)

	return models.StepExecutionRecord{
		StepId:     step.Id,
		Kind:       step.Kind,
		ConnRole:   step.ConnRole,
		Connection: step.Conn,
		ConnTag:    step.ConnTag,
		RunId:      ctx.RunId,
		Cmd:        ctx.Cmd,
		Toolbox:    ctx.Config.Config.Toolbox,
		Initiator: types.Initiator{
			Type:   "system",
			Id:     "sdecra-orchestrator",
			Tenant: host,
		},
		StartTime:  now,
		FinishTime: now,
		Success:    false,
		Error:      fmt.Sprintf("no handler registered for operation kind %q", step.Kind),
	}
}
