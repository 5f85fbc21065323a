package types

// AnalysisType tags an AI analysis request
type AnalysisType string

const (
	AnalysisTypeControlHealthImpact AnalysisType = "control_health_impact"
	AnalysisTypeRiskKRIMapping      AnalysisType = "risk_kri_mapping"
	AnalysisTypeCCFMapping          AnalysisType = "ccf_mapping"
)

// AllAnalysisTypes returns all valid analysis types
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{
		AnalysisTypeControlHealthImpact,
		AnalysisTypeRiskKRIMapping,
		AnalysisTypeCCFMapping,
	}
}

// IsValid checks if the analysis type is valid
func (t AnalysisType) IsValid() bool {
	switch t {
	case AnalysisTypeControlHealthImpact, AnalysisTypeRiskKRIMapping, AnalysisTypeCCFMapping:
		return true
	default:
		return false
	}
}

// String returns the string representation of the analysis type
func (t AnalysisType) String() string {
	return string(t)
}

// ParseAnalysisType parses a string into an AnalysisType
func ParseAnalysisType(s string) (AnalysisType, error) {
	return parseEnum("analysis type", s, AnalysisType.IsValid)
}
