package model

// PolicyStatusActive is assigned to policies created without an explicit status
const PolicyStatusActive = "Active"

// Policy is an internal policy document that unified controls implement
type Policy struct {
	ID             string `json:"id"`
	PolicyID       string `json:"policy_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Owner          string `json:"owner"`
	Status         string `json:"status"`
	LastReviewed   string `json:"last_reviewed,omitempty"`
	NextReview     string `json:"next_review,omitempty"`
	MappedControls IDList `json:"mapped_controls,omitempty"`
}

// Clone returns a copy that shares no slices with p
func (p Policy) Clone() Policy {
	p.MappedControls = p.MappedControls.Clone()
	return p
}

// PolicyCategories are the categories offered by the policy form
func PolicyCategories() []string {
	return []string{
		"Security",
		"Data Protection",
		"Access Control",
		"Monitoring",
		"Business Continuity",
		"Network Security",
		"Privacy",
		"Change Management",
		"Incident Management",
	}
}
