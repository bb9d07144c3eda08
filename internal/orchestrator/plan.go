package orchestrator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SDFIdk/SDE-CRA/internal/gptool"
	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/internal/stephandler"
	"github.com/SDFIdk/SDE-CRA/internal/utils"
	"github.com/SDFIdk/SDE-CRA/types"
)

// BuildPlan expands the fixed maintenance order into connection-scoped
// sub-steps:
//
//  1. (only when initial_analyze is set) Analyze admin, then per owner
//  2. Compress, admin only
//  3. Analyze admin, then per owner
//  4. RebuildIndexes admin, then per owner
//
// The order itself is not configurable; it mirrors the vendor-recommended
// workflow. ops restricts the plan to a subset of operation kinds (empty
// means all). ownerDatasets holds the dataset list gathered per owner
// connection; owners with no datasets are left out of the owner passes.
// perDataset splits each owner sub-step into one sub-step per dataset.
func BuildPlan(cfg *types.MaintenanceConfig, ops []string, ownerDatasets map[string][]string, perDataset bool) []stephandler.Step {
	var plan []stephandler.Step

	fullWorkflow := len(ops) == 0

	wantAnalyze := fullWorkflow || slices.Contains(ops, models.OpAnalyze)
	wantCompress := fullWorkflow || slices.Contains(ops, models.OpCompress)
	wantRebuild := fullWorkflow || slices.Contains(ops, models.OpRebuild)

	// The warm-up pass only exists in the full workflow; a standalone
	// `sdecra analyze` is a single pass by definition.
	if fullWorkflow && cfg.Config.InitialAnalyze {
		plan = append(plan, analyzePass(cfg, "analyze1", ownerDatasets, perDataset)...)
	}

	if wantCompress {
		plan = append(plan, stephandler.Step{
			Id:       "compress",
			Kind:     models.OpCompress,
			ConnRole: models.RoleAdmin,
			Conn:     cfg.Connections.Admin,
			ConnTag:  utils.ConnTag(cfg.Connections.TagPattern, cfg.Connections.Admin),
		})
	}

	if wantAnalyze {
		label := "analyze"
		if fullWorkflow {
			// Running Analyze AFTER Compress is the important thing.
			label = "analyze2"
		}
		plan = append(plan, analyzePass(cfg, label, ownerDatasets, perDataset)...)
	}

	if wantRebuild {
		plan = append(plan, rebuildPass(cfg, ownerDatasets, perDataset)...)
	}

	return plan
}

// analyzePass emits the admin analyze sub-step followed by one owner
// sub-step per owner connection with datasets, or one per dataset when
// perDataset is set.
func analyzePass(cfg *types.MaintenanceConfig, label string, ownerDatasets map[string][]string, perDataset bool) []stephandler.Step {
	steps := []stephandler.Step{{
		Id:       fmt.Sprintf("%s-admin", label),
		Kind:     models.OpAnalyze,
		ConnRole: models.RoleAdmin,
		Conn:     cfg.Connections.Admin,
		ConnTag:  utils.ConnTag(cfg.Connections.TagPattern, cfg.Connections.Admin),
		Analyze:  gptool.AnalyzeCall{System: true},
	}}

	for _, owner := range cfg.Connections.Owners {
		datasets := ownerDatasets[owner]
		if len(datasets) == 0 {
			continue
		}
		tag := utils.ConnTag(cfg.Connections.TagPattern, owner)

		for _, batch := range datasetBatches(datasets, perDataset) {
			id := fmt.Sprintf("%s-owner-%s", label, tag)
			if perDataset {
				id = fmt.Sprintf("%s-%s", id, batch[0])
			}
			steps = append(steps, stephandler.Step{
				Id:       id,
				Kind:     models.OpAnalyze,
				ConnRole: models.RoleOwner,
				Conn:     owner,
				ConnTag:  tag,
				Analyze: gptool.AnalyzeCall{
					System:   false,
					Datasets: batch,
					Base:     cfg.Analyze.BaseEnabled(),
					Delta:    cfg.Analyze.DeltaEnabled(),
					Archive:  cfg.Analyze.ArchiveEnabled(),
				},
			})
		}
	}

	return steps
}

// datasetBatches returns the dataset list as one batch, or one single-item
// batch per dataset when perDataset is set.
func datasetBatches(datasets []string, perDataset bool) [][]string {
	if !perDataset {
		return [][]string{datasets}
	}
	batches := make([][]string, 0, len(datasets))
	for _, ds := range datasets {
		batches = append(batches, []string{ds})
	}
	return batches
}

// rebuildPass emits the admin rebuild sub-step followed by one owner
// sub-step per owner connection with datasets, or one per dataset when
// perDataset is set.
func rebuildPass(cfg *types.MaintenanceConfig, ownerDatasets map[string][]string, perDataset bool) []stephandler.Step {
	scope := strings.ToUpper(cfg.Rebuild.Scope)

	steps := []stephandler.Step{{
		Id:       "rebuild-admin",
		Kind:     models.OpRebuild,
		ConnRole: models.RoleAdmin,
		Conn:     cfg.Connections.Admin,
		ConnTag:  utils.ConnTag(cfg.Connections.TagPattern, cfg.Connections.Admin),
		Rebuild:  gptool.RebuildCall{System: true, Scope: scope},
	}}

	for _, owner := range cfg.Connections.Owners {
		datasets := ownerDatasets[owner]
		if len(datasets) == 0 {
			continue
		}
		tag := utils.ConnTag(cfg.Connections.TagPattern, owner)

		for _, batch := range datasetBatches(datasets, perDataset) {
			id := fmt.Sprintf("rebuild-owner-%s", tag)
			if perDataset {
				id = fmt.Sprintf("%s-%s", id, batch[0])
			}
			steps = append(steps, stephandler.Step{
				Id:       id,
				Kind:     models.OpRebuild,
				ConnRole: models.RoleOwner,
				Conn:     owner,
				ConnTag:  tag,
				Rebuild: gptool.RebuildCall{
					System:   false,
					Datasets: batch,
					Scope:    scope,
				},
			})
		}
	}

	return steps
}
