package usecase

import (
	"context"
	"errors"

	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/utils/errutil"
)

// Stats sources of the dashboard overview
const (
	StatsSourceBackend = "backend"
	StatsSourceLocal   = "local"
)

const dashboardTopRisks = 5

type DashboardUseCase struct {
	page
}

// Overview is the dashboard page
type Overview struct {
	Stats             *model.DashboardStats  `json:"stats"`
	StatsSource       string                 `json:"stats_source"`
	EnabledFrameworks []model.Framework      `json:"enabled_frameworks"`
	OpenIssues        []model.Issue          `json:"open_issues"`
	IssuesBySeverity  map[types.Severity]int `json:"issues_by_severity"`
	TopRisks          []model.Risk           `json:"top_risks"`
	UnifiedControls   int                    `json:"unified_controls"`
}

// Overview combines the backend aggregates with figures derived from the current snapshot.
// Without the stats endpoint, or when it fails, the aggregates are computed locally.
func (uc *DashboardUseCase) Overview(ctx context.Context) *Overview {
	snap := uc.app.Snapshot()

	out := &Overview{
		EnabledFrameworks: snap.EnabledFrameworks(),
		OpenIssues:        snap.OpenIssues(),
		IssuesBySeverity:  model.CountBySeverity(snap.Issues),
		TopRisks:          topRisks(snap.Risks, dashboardTopRisks),
		UnifiedControls:   len(snap.UnifiedControls),
	}

	stats, err := uc.gateway.DashboardStats(ctx)
	if err == nil {
		out.Stats = stats
		out.StatsSource = StatsSourceBackend
		return out
	}

	if !errors.Is(err, interfaces.ErrNotSupported) {
		_ = errutil.Handle(ctx, err, "failed to fetch dashboard stats")
	}
	out.Stats = model.ComputeStats(snap)
	out.StatsSource = StatsSourceLocal
	return out
}
