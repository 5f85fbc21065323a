package model

import "github.com/secmon-lab/grcboard/pkg/domain/types"

// ExceptionDetails is an approved, time-bounded waiver against an issue
type ExceptionDetails struct {
	Reason     string `json:"reason"`
	ApprovedBy string `json:"approved_by"`
	ExpiryDate string `json:"expiry_date"`
}

// Validate checks that every field of the waiver is filled
func (x ExceptionDetails) Validate() error {
	if err := requireField("reason", x.Reason); err != nil {
		return err
	}
	if err := requireField("approved_by", x.ApprovedBy); err != nil {
		return err
	}
	return requireField("expiry_date", x.ExpiryDate)
}

// Issue is a finding against a unified control
type Issue struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	UnifiedControlID string            `json:"unified_control_id"`
	Severity         types.Severity    `json:"severity"`
	Status           types.IssueStatus `json:"status"`
	AssignedTo       string            `json:"assigned_to"`
	DueDate          string            `json:"due_date"`
	HasException     bool              `json:"has_exception"`
	ExceptionDetails *ExceptionDetails `json:"exception_details,omitempty"`
	CreatedAt        string            `json:"created_at,omitempty"`
}

// Clone returns a copy that shares no pointers with i
func (i Issue) Clone() Issue {
	if i.ExceptionDetails != nil {
		details := *i.ExceptionDetails
		i.ExceptionDetails = &details
	}
	return i
}

// IsOpen reports whether the issue is neither resolved nor closed
func (i Issue) IsOpen() bool {
	return i.Status.IsOpen()
}
