package model

import "github.com/secmon-lab/grcboard/pkg/domain/types"

// ControlTest is one execution of a test against a unified control
type ControlTest struct {
	ID               string           `json:"id"`
	UnifiedControlID string           `json:"unified_control_id"`
	Tester           string           `json:"tester"`
	Status           types.TestStatus `json:"status"`
	Result           types.TestResult `json:"result"`
	TestDate         string           `json:"test_date,omitempty"`
	Notes            string           `json:"notes"`
	EvidenceIDs      IDList           `json:"evidence_ids"`
}

// Clone returns a copy that shares no slices with t
func (t ControlTest) Clone() ControlTest {
	t.EvidenceIDs = t.EvidenceIDs.Clone()
	return t
}

// Passed reports whether the test passed
func (t ControlTest) Passed() bool {
	return t.Result == types.TestResultPass
}
