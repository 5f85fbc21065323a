package model

import (
	"maps"
	"slices"
	"time"

	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Snapshot is one consistent view of every server-backed collection.
// Collections keep the order in which the server returned them.
type Snapshot struct {
	Version     uint64
	RefreshedAt time.Time

	Frameworks        []Framework
	FrameworkControls map[string][]FrameworkControl
	UnifiedControls   []UnifiedControl
	Policies          []Policy
	ControlTests      []ControlTest
	Evidence          []Evidence
	Issues            []Issue
	Risks             []Risk
	KRIs              []KRI
	KCIs              []KCI
}

// Clone returns a copy that shares no mutable state with s
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}

	out := *s
	out.Frameworks = slices.Clone(s.Frameworks)
	out.UnifiedControls = cloneEach(s.UnifiedControls, UnifiedControl.Clone)
	out.Policies = cloneEach(s.Policies, Policy.Clone)
	out.ControlTests = cloneEach(s.ControlTests, ControlTest.Clone)
	out.Evidence = slices.Clone(s.Evidence)
	out.Issues = cloneEach(s.Issues, Issue.Clone)
	out.Risks = cloneEach(s.Risks, Risk.Clone)
	out.KRIs = cloneEach(s.KRIs, KRI.Clone)
	out.KCIs = slices.Clone(s.KCIs)

	if s.FrameworkControls != nil {
		out.FrameworkControls = make(map[string][]FrameworkControl, len(s.FrameworkControls))
		for id, controls := range s.FrameworkControls {
			out.FrameworkControls[id] = slices.Clone(controls)
		}
	}
	return &out
}

func cloneEach[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

// Count returns the number of records in collection c
func (s *Snapshot) Count(c types.Collection) int {
	switch c {
	case types.CollectionFrameworks:
		return len(s.Frameworks)
	case types.CollectionUnifiedControls:
		return len(s.UnifiedControls)
	case types.CollectionPolicies:
		return len(s.Policies)
	case types.CollectionControlTests:
		return len(s.ControlTests)
	case types.CollectionEvidence:
		return len(s.Evidence)
	case types.CollectionIssues:
		return len(s.Issues)
	case types.CollectionRisks:
		return len(s.Risks)
	case types.CollectionKRIs:
		return len(s.KRIs)
	case types.CollectionKCIs:
		return len(s.KCIs)
	default:
		return 0
	}
}

func findByID[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, item := range items {
		if key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FrameworkByID looks up a framework. A miss is not an error.
func (s *Snapshot) FrameworkByID(id string) (Framework, bool) {
	return findByID(s.Frameworks, id, func(f Framework) string { return f.ID })
}

// UnifiedControlByID looks up a unified control
func (s *Snapshot) UnifiedControlByID(id string) (UnifiedControl, bool) {
	return findByID(s.UnifiedControls, id, func(c UnifiedControl) string { return c.ID })
}

// PolicyByID looks up a policy by record id, then by its policy_id
func (s *Snapshot) PolicyByID(id string) (Policy, bool) {
	if p, ok := findByID(s.Policies, id, func(p Policy) string { return p.ID }); ok {
		return p, true
	}
	return findByID(s.Policies, id, func(p Policy) string { return p.PolicyID })
}

// IssueByID looks up an issue
func (s *Snapshot) IssueByID(id string) (Issue, bool) {
	return findByID(s.Issues, id, func(i Issue) string { return i.ID })
}

// RiskByID looks up a risk
func (s *Snapshot) RiskByID(id string) (Risk, bool) {
	return findByID(s.Risks, id, func(r Risk) string { return r.ID })
}

// KRIByID looks up a KRI
func (s *Snapshot) KRIByID(id string) (KRI, bool) {
	return findByID(s.KRIs, id, func(k KRI) string { return k.ID })
}

// KCIByID looks up a KCI
func (s *Snapshot) KCIByID(id string) (KCI, bool) {
	return findByID(s.KCIs, id, func(k KCI) string { return k.ID })
}

// FrameworkControlByID searches the loaded controls of every framework
func (s *Snapshot) FrameworkControlByID(id string) (FrameworkControl, bool) {
	for _, fwID := range slices.Sorted(maps.Keys(s.FrameworkControls)) {
		if fc, ok := findByID(s.FrameworkControls[fwID], id, func(c FrameworkControl) string { return c.ID }); ok {
			return fc, true
		}
	}
	return FrameworkControl{}, false
}

// EnabledFrameworks returns enabled frameworks in server order
func (s *Snapshot) EnabledFrameworks() []Framework {
	var out []Framework
	for _, f := range s.Frameworks {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// OpenIssues returns issues that are neither resolved nor closed
func (s *Snapshot) OpenIssues() []Issue {
	var out []Issue
	for _, i := range s.Issues {
		if i.IsOpen() {
			out = append(out, i)
		}
	}
	return out
}

// TestsFor returns the control tests of one unified control in server order
func (s *Snapshot) TestsFor(controlID string) []ControlTest {
	var out []ControlTest
	for _, t := range s.ControlTests {
		if t.UnifiedControlID == controlID {
			out = append(out, t)
		}
	}
	return out
}

// EvidenceFor returns the evidence of one unified control in server order
func (s *Snapshot) EvidenceFor(controlID string) []Evidence {
	var out []Evidence
	for _, e := range s.Evidence {
		if e.UnifiedControlID == controlID {
			out = append(out, e)
		}
	}
	return out
}

// LinkedControls resolves a risk's control references. Dangling ids are returned separately.
func (s *Snapshot) LinkedControls(r Risk) (found []UnifiedControl, missing []string) {
	for _, id := range r.LinkedControls {
		if c, ok := s.UnifiedControlByID(id); ok {
			found = append(found, c)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// LinkedKRIs resolves a risk's KRI references, skipping dangling ids
func (s *Snapshot) LinkedKRIs(r Risk) []KRI {
	var out []KRI
	for _, id := range r.KRIs {
		if k, ok := s.KRIByID(id); ok {
			out = append(out, k)
		}
	}
	return out
}

// LinkedKCIs returns the KCIs measuring any of the given controls
func (s *Snapshot) LinkedKCIs(controls []UnifiedControl) []KCI {
	var out []KCI
	for _, k := range s.KCIs {
		for _, c := range controls {
			if k.UnifiedControlID == c.ID {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// RisksLinkedTo returns the risks that reference control id
func (s *Snapshot) RisksLinkedTo(controlID string) []Risk {
	var out []Risk
	for _, r := range s.Risks {
		if r.LinkedControls.Contains(controlID) {
			out = append(out, r)
		}
	}
	return out
}
