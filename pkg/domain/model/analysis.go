package model

import "github.com/secmon-lab/grcboard/pkg/domain/types"

// AnalysisRequest is the body of POST /ai/analyze
type AnalysisRequest struct {
	AnalysisType types.AnalysisType `json:"analysis_type"`
	Context      any                `json:"context"`
}

// Analysis is free text from the analysis collaborator. It is displayed verbatim.
type Analysis struct {
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisPanel is the result shown for one analysed subject
type AnalysisPanel struct {
	Type        types.AnalysisType `json:"type"`
	SubjectID   string             `json:"subject_id"`
	SubjectName string             `json:"subject_name"`
	Result      Analysis           `json:"result"`
}

// RiskRef is a risk as presented to the analysis collaborator
type RiskRef struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	InherentScore float64 `json:"inherent_score"`
	ResidualScore float64 `json:"residual_score"`
	Category      string  `json:"category,omitempty"`
}

// KRIRef is a KRI as presented to the analysis collaborator
type KRIRef struct {
	Name         string          `json:"name"`
	CurrentValue float64         `json:"current_value"`
	Threshold    float64         `json:"threshold"`
	Status       types.KRIStatus `json:"status"`
	Trend        types.Trend     `json:"trend"`
}

// ControlRef is a unified control as presented to the analysis collaborator
type ControlRef struct {
	Name        string            `json:"name"`
	HealthScore float64           `json:"health_score"`
	Status      string            `json:"status,omitempty"`
	Type        types.ControlType `json:"type,omitempty"`
}

// KCIRef is a KCI as presented to the analysis collaborator
type KCIRef struct {
	Name         string          `json:"name"`
	CurrentValue float64         `json:"current_value"`
	Target       float64         `json:"target"`
	Status       types.KCIStatus `json:"status"`
}

// RiskKRIContext is the context of a risk_kri_mapping analysis
type RiskKRIContext struct {
	Risk     RiskRef      `json:"risk"`
	KRIs     []KRIRef     `json:"kris"`
	Controls []ControlRef `json:"controls"`
	KCIs     []KCIRef     `json:"kcis"`
}

// ControlHealthContext is the context of a control_health_impact analysis
type ControlHealthContext struct {
	Risk                 RiskRef      `json:"risk"`
	Controls             []ControlRef `json:"controls"`
	AverageControlHealth float64      `json:"average_control_health"`
	RiskReduction        string       `json:"risk_reduction"`
}

// CCFControlRef is the control under a ccf_mapping analysis
type CCFControlRef struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	CCFID          string            `json:"ccf_id"`
	InternalPolicy string            `json:"internal_policy,omitempty"`
	Type           types.ControlType `json:"type"`
	Frequency      types.Frequency   `json:"frequency"`
}

// LinkedRiskRef is a risk linked to the control under a ccf_mapping analysis
type LinkedRiskRef struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CCFMappingContext is the context of a ccf_mapping analysis
type CCFMappingContext struct {
	Control     CCFControlRef   `json:"control"`
	LinkedRisks []LinkedRiskRef `json:"linked_risks"`
	Frameworks  []string        `json:"frameworks"`
}
