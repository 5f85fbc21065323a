package types

// KRIStatus is the alert level of a key risk indicator
type KRIStatus string

const (
	KRIStatusNormal   KRIStatus = "Normal"
	KRIStatusWarning  KRIStatus = "Warning"
	KRIStatusCritical KRIStatus = "Critical"
)

// AllKRIStatuses returns all valid KRI statuses
func AllKRIStatuses() []KRIStatus {
	return []KRIStatus{KRIStatusNormal, KRIStatusWarning, KRIStatusCritical}
}

// IsValid checks if the KRI status is valid
func (s KRIStatus) IsValid() bool {
	switch s {
	case KRIStatusNormal, KRIStatusWarning, KRIStatusCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the KRI status
func (s KRIStatus) String() string {
	return string(s)
}

// ParseKRIStatus parses a string into a KRIStatus
func ParseKRIStatus(s string) (KRIStatus, error) {
	return parseEnum("KRI status", s, KRIStatus.IsValid)
}

// Trend is the direction a KRI is moving in
type Trend string

const (
	TrendStable     Trend = "Stable"
	TrendIncreasing Trend = "Increasing"
	TrendDecreasing Trend = "Decreasing"
)

// AllTrends returns all valid trends
func AllTrends() []Trend {
	return []Trend{TrendStable, TrendIncreasing, TrendDecreasing}
}

// IsValid checks if the trend is valid
func (t Trend) IsValid() bool {
	switch t {
	case TrendStable, TrendIncreasing, TrendDecreasing:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trend
func (t Trend) String() string {
	return string(t)
}

// ParseTrend parses a string into a Trend
func ParseTrend(s string) (Trend, error) {
	return parseEnum("trend", s, Trend.IsValid)
}

// KCIStatus is the performance band of a key control indicator
type KCIStatus string

const (
	KCIStatusExcellent      KCIStatus = "Excellent"
	KCIStatusOnTrack        KCIStatus = "On Track"
	KCIStatusNeedsAttention KCIStatus = "Needs Attention"
	KCIStatusCritical       KCIStatus = "Critical"
)

// AllKCIStatuses returns all valid KCI statuses
func AllKCIStatuses() []KCIStatus {
	return []KCIStatus{
		KCIStatusExcellent,
		KCIStatusOnTrack,
		KCIStatusNeedsAttention,
		KCIStatusCritical,
	}
}

// IsValid checks if the KCI status is valid
func (s KCIStatus) IsValid() bool {
	switch s {
	case KCIStatusExcellent, KCIStatusOnTrack, KCIStatusNeedsAttention, KCIStatusCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the KCI status
func (s KCIStatus) String() string {
	return string(s)
}

// ParseKCIStatus parses a string into a KCIStatus
func ParseKCIStatus(s string) (KCIStatus, error) {
	return parseEnum("KCI status", s, KCIStatus.IsValid)
}
