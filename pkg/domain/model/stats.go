package model

import "encoding/json"

// DashboardStats are the headline numbers of the dashboard, as served by GET /dashboard/stats
type DashboardStats struct {
	EnabledFrameworks    int     `json:"enabled_frameworks"`
	TotalUnifiedControls int     `json:"total_unified_controls"`
	ControlEffectiveness float64 `json:"control_effectiveness"`
	TotalTests           int     `json:"total_tests"`
	PassedTests          int     `json:"passed_tests"`
	OpenIssues           int     `json:"open_issues"`
	TotalIssues          int     `json:"total_issues"`
	TotalRisks           int     `json:"total_risks"`
	AvgResidualRisk      float64 `json:"avg_residual_risk"`
}

// UnmarshalJSON accepts total_tests_performed as an alias of total_tests
func (d *DashboardStats) UnmarshalJSON(data []byte) error {
	type plain DashboardStats
	var aux struct {
		plain
		TotalTestsPerformed *int `json:"total_tests_performed"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*d = DashboardStats(aux.plain)
	if d.TotalTests == 0 && aux.TotalTestsPerformed != nil {
		d.TotalTests = *aux.TotalTestsPerformed
	}
	return nil
}

// ComputeStats derives DashboardStats from a snapshot for backends without the stats endpoint.
// Effectiveness is rounded to one decimal and the residual risk average to two.
func ComputeStats(s *Snapshot) *DashboardStats {
	stats := &DashboardStats{
		EnabledFrameworks:    len(s.EnabledFrameworks()),
		TotalUnifiedControls: len(s.UnifiedControls),
		ControlEffectiveness: Round(ControlEffectiveness(s.ControlTests), 1),
		TotalTests:           len(s.ControlTests),
		OpenIssues:           len(s.OpenIssues()),
		TotalIssues:          len(s.Issues),
		TotalRisks:           len(s.Risks),
	}

	for _, t := range s.ControlTests {
		if t.Passed() {
			stats.PassedTests++
		}
	}

	if len(s.Risks) > 0 {
		var sum float64
		for _, r := range s.Risks {
			sum += r.ResidualRiskScore
		}
		stats.AvgResidualRisk = Round(sum/float64(len(s.Risks)), 2)
	}

	return stats
}
