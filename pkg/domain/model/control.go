package model

import "github.com/secmon-lab/grcboard/pkg/domain/types"

// UnifiedControl is an internal control mapped to requirements of many frameworks
type UnifiedControl struct {
	ID                      string            `json:"id"`
	CCFID                   string            `json:"ccf_id"`
	Name                    string            `json:"name"`
	Description             string            `json:"description"`
	ControlType             types.ControlType `json:"control_type"`
	Frequency               types.Frequency   `json:"frequency"`
	Owner                   string            `json:"owner"`
	HealthScore             float64           `json:"health_score"`
	Status                  string            `json:"status,omitempty"`
	InternalPolicy          string            `json:"internal_policy,omitempty"`
	MappedFrameworkControls IDList            `json:"mapped_framework_controls"`
	MappedPolicies          IDList            `json:"mapped_policies"`
	LinkedRisks             IDList            `json:"linked_risks,omitempty"`
	KCIs                    IDList            `json:"kcis,omitempty"`
	AutomationPossible      bool              `json:"automation_possible"`
	LastTested              string            `json:"last_tested,omitempty"`
}

// Clone returns a copy that shares no slices with c
func (c UnifiedControl) Clone() UnifiedControl {
	c.MappedFrameworkControls = c.MappedFrameworkControls.Clone()
	c.MappedPolicies = c.MappedPolicies.Clone()
	c.LinkedRisks = c.LinkedRisks.Clone()
	c.KCIs = c.KCIs.Clone()
	return c
}
