package model

import (
	"math"

	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Percent returns num as a percentage of den, or 0 when den is 0.
// The value is not clamped: a KRI above its threshold reports more than 100.
func Percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num * 100 / den
}

// ProgressWidth clamps a percentage to [0, 100] for drawing a bar. Never use it for the number shown.
func ProgressWidth(percent float64) float64 {
	switch {
	case math.IsNaN(percent), percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RiskReduction is how much the controls cut the inherent score, in percent
func RiskReduction(r Risk) float64 {
	return Percent(r.InherentRiskScore-r.ResidualRiskScore, r.InherentRiskScore)
}

// KRIUtilization is the KRI's current value relative to its threshold, in percent
func KRIUtilization(k KRI) float64 {
	return Percent(k.CurrentValue, k.Threshold)
}

// KCIPerformance is the KCI's current value relative to its target, in percent
func KCIPerformance(k KCI) float64 {
	return Percent(k.CurrentValue, k.Target)
}

// AverageHealth is the mean health score of controls, 0 for none
func AverageHealth(controls []UnifiedControl) float64 {
	if len(controls) == 0 {
		return 0
	}
	var sum float64
	for _, c := range controls {
		sum += c.HealthScore
	}
	return sum / float64(len(controls))
}

// AutomationRate is the share of evidence collected automatically, in percent
func AutomationRate(evidence []Evidence) float64 {
	var automated int
	for _, e := range evidence {
		if e.Automated {
			automated++
		}
	}
	return Percent(float64(automated), float64(len(evidence)))
}

// ControlEffectiveness is the share of passed control tests, in percent
func ControlEffectiveness(tests []ControlTest) float64 {
	var passed int
	for _, t := range tests {
		if t.Passed() {
			passed++
		}
	}
	return Percent(float64(passed), float64(len(tests)))
}

// FrameworkCoverage is the share of available frameworks that are enabled, in percent
func FrameworkCoverage(frameworks []Framework) float64 {
	var enabled int
	for _, f := range frameworks {
		if f.Enabled {
			enabled++
		}
	}
	return Percent(float64(enabled), float64(len(frameworks)))
}

// EnabledControlTotal sums total_controls over enabled frameworks
func EnabledControlTotal(frameworks []Framework) int {
	var total int
	for _, f := range frameworks {
		if f.Enabled {
			total += f.TotalControls
		}
	}
	return total
}

// CountBySeverity counts issues per severity. Severities with no issue are omitted.
func CountBySeverity(issues []Issue) map[types.Severity]int {
	out := make(map[types.Severity]int)
	for _, i := range issues {
		out[i.Severity]++
	}
	return out
}
