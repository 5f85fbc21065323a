package types

// ControlType classifies how a unified control acts on a risk
type ControlType string

const (
	ControlTypePreventive ControlType = "Preventive"
	ControlTypeDetective  ControlType = "Detective"
	ControlTypeCorrective ControlType = "Corrective"
)

// AllControlTypes returns all valid control types
func AllControlTypes() []ControlType {
	return []ControlType{
		ControlTypePreventive,
		ControlTypeDetective,
		ControlTypeCorrective,
	}
}

// IsValid checks if the control type is valid
func (t ControlType) IsValid() bool {
	switch t {
	case ControlTypePreventive, ControlTypeDetective, ControlTypeCorrective:
		return true
	default:
		return false
	}
}

// String returns the string representation of the control type
func (t ControlType) String() string {
	return string(t)
}

// ParseControlType parses a string into a ControlType
func ParseControlType(s string) (ControlType, error) {
	return parseEnum("control type", s, ControlType.IsValid)
}

// Frequency is how often a control is performed
type Frequency string

const (
	FrequencyContinuous Frequency = "Continuous"
	FrequencyDaily      Frequency = "Daily"
	FrequencyWeekly     Frequency = "Weekly"
	FrequencyMonthly    Frequency = "Monthly"
	FrequencyQuarterly  Frequency = "Quarterly"
	FrequencyAnnual     Frequency = "Annual"
)

// AllFrequencies returns all valid frequencies
func AllFrequencies() []Frequency {
	return []Frequency{
		FrequencyContinuous,
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyMonthly,
		FrequencyQuarterly,
		FrequencyAnnual,
	}
}

// IsValid checks if the frequency is valid
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyContinuous,
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyMonthly,
		FrequencyQuarterly,
		FrequencyAnnual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the frequency
func (f Frequency) String() string {
	return string(f)
}

// ParseFrequency parses a string into a Frequency
func ParseFrequency(s string) (Frequency, error) {
	return parseEnum("frequency", s, Frequency.IsValid)
}
