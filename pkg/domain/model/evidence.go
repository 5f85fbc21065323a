package model

import "encoding/json"

// ManualUploadTestID tags evidence uploaded by hand rather than collected by a control test
const ManualUploadTestID = "manual-upload"

// Evidence is an artifact showing that a control was performed
type Evidence struct {
	ID               string `json:"id"`
	UnifiedControlID string `json:"unified_control_id"`
	ControlTestID    string `json:"control_test_id,omitempty"`
	Description      string `json:"description"`
	EvidenceType     string `json:"evidence_type"`
	FileName         string `json:"file_name,omitempty"`
	Automated        bool   `json:"automated"`
	Status           string `json:"status"`
	CollectedAt      string `json:"collected_at,omitempty"`
}

// UnmarshalJSON accepts control_id as an alias of unified_control_id
func (e *Evidence) UnmarshalJSON(data []byte) error {
	type plain Evidence
	var aux struct {
		plain
		ControlID string `json:"control_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*e = Evidence(aux.plain)
	if e.UnifiedControlID == "" {
		e.UnifiedControlID = aux.ControlID
	}
	return nil
}

// IsManualUpload reports whether the evidence was uploaded by hand
func (e Evidence) IsManualUpload() bool {
	return e.ControlTestID == ManualUploadTestID
}
