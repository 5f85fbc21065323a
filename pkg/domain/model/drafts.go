package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Score bounds of the risk forms
const (
	MinRiskScore = 1.0
	MaxRiskScore = 10.0
)

// UnifiedControlDraft is the editable part of a unified control
type UnifiedControlDraft struct {
	CCFID                   string            `json:"ccf_id"`
	Name                    string            `json:"name"`
	Description             string            `json:"description"`
	ControlType             types.ControlType `json:"control_type"`
	Frequency               types.Frequency   `json:"frequency"`
	Owner                   string            `json:"owner"`
	MappedFrameworkControls IDList            `json:"mapped_framework_controls"`
	MappedPolicies          IDList            `json:"mapped_policies"`
	AutomationPossible      bool              `json:"automation_possible"`
}

// Validate checks the required fields and enumerations
func (d UnifiedControlDraft) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"ccf_id", d.CCFID},
		{"name", d.Name},
		{"description", d.Description},
		{"owner", d.Owner},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	if err := requireEnum("control_type", d.ControlType); err != nil {
		return err
	}
	return requireEnum("frequency", d.Frequency)
}

// Body returns the create request body. Reference lists are sent as empty arrays, never null.
func (d UnifiedControlDraft) Body() UnifiedControlDraft {
	if d.MappedFrameworkControls == nil {
		d.MappedFrameworkControls = IDList{}
	}
	if d.MappedPolicies == nil {
		d.MappedPolicies = IDList{}
	}
	return d
}

// PolicyDraft is the editable part of a policy
type PolicyDraft struct {
	PolicyID    string `json:"policy_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Owner       string `json:"owner"`
	Status      string `json:"status"`
}

// Validate checks the required fields
func (d PolicyDraft) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"policy_id", d.PolicyID},
		{"name", d.Name},
		{"category", d.Category},
		{"owner", d.Owner},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Body returns the create request body with the default status applied
func (d PolicyDraft) Body() PolicyDraft {
	if d.Status == "" {
		d.Status = PolicyStatusActive
	}
	return d
}

// ControlTestDraft is a control test about to be submitted
type ControlTestDraft struct {
	UnifiedControlID string           `json:"unified_control_id"`
	Tester           string           `json:"tester"`
	Status           types.TestStatus `json:"status"`
	Result           types.TestResult `json:"result"`
	Notes            string           `json:"notes"`
	EvidenceIDs      IDList           `json:"evidence_ids"`
}

// Validate checks the required fields and enumerations
func (d ControlTestDraft) Validate() error {
	if err := requireField("unified_control_id", d.UnifiedControlID); err != nil {
		return err
	}
	if err := requireField("tester", d.Tester); err != nil {
		return err
	}
	if err := requireEnum("status", d.Status); err != nil {
		return err
	}
	return requireEnum("result", d.Result)
}

// Body returns the create request body
func (d ControlTestDraft) Body() ControlTestDraft {
	if d.EvidenceIDs == nil {
		d.EvidenceIDs = IDList{}
	}
	return d
}

// IssueDraft is the editable part of an issue
type IssueDraft struct {
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	UnifiedControlID string         `json:"unified_control_id"`
	Severity         types.Severity `json:"severity"`
	AssignedTo       string         `json:"assigned_to"`
	DueDate          string         `json:"due_date"`
}

// Validate checks the required fields and enumerations
func (d IssueDraft) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"title", d.Title},
		{"description", d.Description},
		{"unified_control_id", d.UnifiedControlID},
		{"assigned_to", d.AssignedTo},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requireEnum("severity", d.Severity)
}

// IssueCreateBody is the POST /issues body. New issues start Open without exception.
type IssueCreateBody struct {
	IssueDraft
	Status       types.IssueStatus `json:"status"`
	HasException bool              `json:"has_exception"`
}

// Body returns the create request body
func (d IssueDraft) Body() IssueCreateBody {
	return IssueCreateBody{IssueDraft: d, Status: types.IssueStatusOpen, HasException: false}
}

// RiskDraft is the editable part of a risk
type RiskDraft struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	InherentRiskScore float64 `json:"inherent_risk_score"`
	ResidualRiskScore float64 `json:"residual_risk_score"`
	Owner             string  `json:"owner"`
	Status            string  `json:"status"`
	LinkedControls    IDList  `json:"linked_controls"`
	KRIs              IDList  `json:"kris"`
}

// Validate checks the required fields and the score scale
func (d RiskDraft) Validate() error {
	if err := requireField("name", d.Name); err != nil {
		return err
	}
	if err := requireRange("inherent_risk_score", d.InherentRiskScore, MinRiskScore, MaxRiskScore); err != nil {
		return err
	}
	return requireRange("residual_risk_score", d.ResidualRiskScore, 0, MaxRiskScore)
}

// Body returns the create request body
func (d RiskDraft) Body() RiskDraft {
	if d.Status == "" {
		d.Status = "Active"
	}
	if d.LinkedControls == nil {
		d.LinkedControls = IDList{}
	}
	if d.KRIs == nil {
		d.KRIs = IDList{}
	}
	return d
}

// SuggestedResidualFactor estimates the residual score of a suggested risk from its inherent score
const SuggestedResidualFactor = 0.6

// DraftFromSuggestion fills a risk draft from an AI suggestion
func DraftFromSuggestion(s RiskSuggestion) RiskDraft {
	category := s.Category
	if category == "" {
		category = "Operational"
	}
	inherent := s.InherentScore
	if inherent == 0 {
		inherent = 5.0
	}
	return RiskDraft{
		Name:              s.Name,
		Description:       s.Description,
		Category:          category,
		InherentRiskScore: inherent,
		ResidualRiskScore: inherent * SuggestedResidualFactor,
	}
}

// KRIDraft is the editable part of a KRI
type KRIDraft struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	RiskID       string          `json:"risk_id"`
	CurrentValue float64         `json:"current_value"`
	Threshold    float64         `json:"threshold"`
	Unit         string          `json:"unit"`
	Status       types.KRIStatus `json:"status"`
	Trend        types.Trend     `json:"trend"`
}

// Validate checks the required fields and enumerations
func (d KRIDraft) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", d.Name},
		{"description", d.Description},
		{"risk_id", d.RiskID},
		{"unit", d.Unit},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	if err := requireEnum("status", d.Status); err != nil {
		return err
	}
	return requireEnum("trend", d.Trend)
}

// KRICreateBody is the POST /kris body. A new KRI has no KCIs yet.
type KRICreateBody struct {
	KRIDraft
	KCIIDs IDList `json:"kci_ids"`
}

// Body returns the create request body
func (d KRIDraft) Body() KRICreateBody {
	return KRICreateBody{KRIDraft: d, KCIIDs: IDList{}}
}

// KCIDraft is the editable part of a KCI
type KCIDraft struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	KRIID            string          `json:"kri_id"`
	UnifiedControlID string          `json:"unified_control_id"`
	CurrentValue     float64         `json:"current_value"`
	Target           float64         `json:"target"`
	Unit             string          `json:"unit"`
	Status           types.KCIStatus `json:"status"`
}

// Validate checks the required fields and enumerations
func (d KCIDraft) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", d.Name},
		{"kri_id", d.KRIID},
		{"unified_control_id", d.UnifiedControlID},
	} {
		if err := requireField(f.name, f.value); err != nil {
			return err
		}
	}
	return requireEnum("status", d.Status)
}

// EvidenceUpload is a manual evidence upload
type EvidenceUpload struct {
	UnifiedControlID string
	Description      string
	FileName         string
	Content          []byte
}

// ErrNoFile is returned when an evidence upload carries no file
var ErrNoFile = goerr.New("no file selected")

// Validate checks that a file and a target control are present
func (u EvidenceUpload) Validate() error {
	if u.FileName == "" || len(u.Content) == 0 {
		return goerr.Wrap(ErrNoFile, "evidence upload without file")
	}
	return requireField("unified_control_id", u.UnifiedControlID)
}
