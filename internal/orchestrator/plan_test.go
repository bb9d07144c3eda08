package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/SDE-CRA/internal/models"
	"github.com/SDFIdk/SDE-CRA/types"
)

func planConfig(owners ...string) *types.MaintenanceConfig {
	cfg := validMaintenanceConfig()
	if len(owners) > 0 {
		cfg.Connections.Owners = owners
	}
	return cfg
}

func planIds(cfg *types.MaintenanceConfig, ops []string, ownerDatasets map[string][]string) []string {
	plan := BuildPlan(cfg, ops, ownerDatasets, false)
	ids := make([]string, 0, len(plan))
	for _, s := range plan {
		ids = append(ids, s.Id)
	}
	return ids
}

func TestBuildPlanFullWorkflow(t *testing.T) {
	cfg := planConfig()
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	plan := BuildPlan(cfg, nil, datasets, false)
	require.Len(t, plan, 5)

	assert.Equal(t, "compress", plan[0].Id)
	assert.Equal(t, models.OpCompress, plan[0].Kind)
	assert.Equal(t, models.RoleAdmin, plan[0].ConnRole, "compress runs on the admin connection only")

	assert.Equal(t, "analyze2-admin", plan[1].Id)
	assert.True(t, plan[1].Analyze.System, "admin analyze uses the SYSTEM scope")

	assert.Equal(t, "analyze2-owner-BASE", plan[2].Id)
	assert.False(t, plan[2].Analyze.System)
	assert.Equal(t, []string{"roads"}, plan[2].Analyze.Datasets)
	assert.True(t, plan[2].Analyze.Base)
	assert.True(t, plan[2].Analyze.Delta)
	assert.True(t, plan[2].Analyze.Archive)

	assert.Equal(t, "rebuild-admin", plan[3].Id)
	assert.True(t, plan[3].Rebuild.System)
	assert.Equal(t, "ALL", plan[3].Rebuild.Scope)

	assert.Equal(t, "rebuild-owner-BASE", plan[4].Id)
	assert.Equal(t, []string{"roads"}, plan[4].Rebuild.Datasets)
}

func TestBuildPlanInitialAnalyze(t *testing.T) {
	cfg := planConfig()
	cfg.Config.InitialAnalyze = true
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	assert.Equal(t, []string{
		"analyze1-admin",
		"analyze1-owner-BASE",
		"compress",
		"analyze2-admin",
		"analyze2-owner-BASE",
		"rebuild-admin",
		"rebuild-owner-BASE",
	}, planIds(cfg, nil, datasets))
}

func TestBuildPlanNoInitialAnalyzeInSingleOp(t *testing.T) {
	cfg := planConfig()
	cfg.Config.InitialAnalyze = true
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	// `sdecra analyze` is a single pass regardless of initial_analyze, and
	// the pass keeps its plain label.
	assert.Equal(t, []string{
		"analyze-admin",
		"analyze-owner-BASE",
	}, planIds(cfg, []string{models.OpAnalyze}, datasets))
}

func TestBuildPlanOpsSubsets(t *testing.T) {
	cfg := planConfig()
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	tests := []struct {
		name string
		ops  []string
		want []string
	}{
		{"compress only", []string{models.OpCompress}, []string{"compress"}},
		{"rebuild only", []string{models.OpRebuild}, []string{"rebuild-admin", "rebuild-owner-BASE"}},
		{
			"analyze and rebuild",
			[]string{models.OpAnalyze, models.OpRebuild},
			[]string{"analyze-admin", "analyze-owner-BASE", "rebuild-admin", "rebuild-owner-BASE"},
		},
		{"unknown op", []string{"vacuum"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planIds(cfg, tt.ops, datasets))
		})
	}
}

func TestBuildPlanMultipleOwnersKeepConfigOrder(t *testing.T) {
	cfg := planConfig("sys_BASE.sde", "sys_s100.sde", "sys_s10m.sde")
	datasets := map[string][]string{
		"sys_BASE.sde": {"roads"},
		"sys_s100.sde": {"contours"},
		"sys_s10m.sde": {"coastline"},
	}

	assert.Equal(t, []string{
		"compress",
		"analyze2-admin",
		"analyze2-owner-BASE",
		"analyze2-owner-s100",
		"analyze2-owner-s10m",
		"rebuild-admin",
		"rebuild-owner-BASE",
		"rebuild-owner-s100",
		"rebuild-owner-s10m",
	}, planIds(cfg, nil, datasets))
}

func TestBuildPlanSkipsOwnersWithoutDatasets(t *testing.T) {
	cfg := planConfig("sys_BASE.sde", "sys_s100.sde")
	datasets := map[string][]string{"sys_s100.sde": {"contours"}}

	assert.Equal(t, []string{
		"compress",
		"analyze2-admin",
		"analyze2-owner-s100",
		"rebuild-admin",
		"rebuild-owner-s100",
	}, planIds(cfg, nil, datasets))
}

func TestBuildPlanAnalyzeTargetFlags(t *testing.T) {
	cfg := planConfig()
	off := false
	cfg.Analyze.Archive = &off
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	plan := BuildPlan(cfg, []string{models.OpAnalyze}, datasets, false)
	require.Len(t, plan, 2)

	owner := plan[1]
	assert.True(t, owner.Analyze.Base)
	assert.True(t, owner.Analyze.Delta)
	assert.False(t, owner.Analyze.Archive)
}

func TestBuildPlanPerDataset(t *testing.T) {
	cfg := planConfig()
	datasets := map[string][]string{"sys_BASE.sde": {"roads", "buildings"}}

	plan := BuildPlan(cfg, []string{models.OpAnalyze, models.OpRebuild}, datasets, true)

	ids := make([]string, 0, len(plan))
	for _, s := range plan {
		ids = append(ids, s.Id)
	}
	assert.Equal(t, []string{
		"analyze-admin",
		"analyze-owner-BASE-roads",
		"analyze-owner-BASE-buildings",
		"rebuild-admin",
		"rebuild-owner-BASE-roads",
		"rebuild-owner-BASE-buildings",
	}, ids)

	// Each owner sub-step carries exactly its one dataset; the admin
	// sub-steps are not split, SYSTEM scope takes no dataset list.
	assert.Empty(t, plan[0].Analyze.Datasets)
	assert.Equal(t, []string{"roads"}, plan[1].Analyze.Datasets)
	assert.Equal(t, []string{"buildings"}, plan[2].Analyze.Datasets)
	assert.Equal(t, []string{"roads"}, plan[4].Rebuild.Datasets)
	assert.Equal(t, []string{"buildings"}, plan[5].Rebuild.Datasets)
}

func TestBuildPlanRebuildScopeUppercased(t *testing.T) {
	cfg := planConfig()
	cfg.Rebuild.Scope = "changed"
	datasets := map[string][]string{"sys_BASE.sde": {"roads"}}

	plan := BuildPlan(cfg, []string{models.OpRebuild}, datasets, false)
	require.Len(t, plan, 2)
	assert.Equal(t, "CHANGED", plan[0].Rebuild.Scope)
	assert.Equal(t, "CHANGED", plan[1].Rebuild.Scope)
}
