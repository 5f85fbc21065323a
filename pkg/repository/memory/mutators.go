package memory

import (
	"slices"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

// Whole-list setters replace one collection with a copy of a value the caller already holds.
// A later RefreshAll reconciles the store with the server anyway.

// SetFrameworks replaces the frameworks collection
func (s *Store) SetFrameworks(list []model.Framework) {
	s.set(func(next *model.Snapshot) { next.Frameworks = (&model.Snapshot{Frameworks: list}).Clone().Frameworks })
}

// SetUnifiedControls replaces the unified controls collection
func (s *Store) SetUnifiedControls(list []model.UnifiedControl) {
	s.set(func(next *model.Snapshot) {
		next.UnifiedControls = (&model.Snapshot{UnifiedControls: list}).Clone().UnifiedControls
	})
}

// SetPolicies replaces the policies collection
func (s *Store) SetPolicies(list []model.Policy) {
	s.set(func(next *model.Snapshot) { next.Policies = (&model.Snapshot{Policies: list}).Clone().Policies })
}

// SetControlTests replaces the control tests collection
func (s *Store) SetControlTests(list []model.ControlTest) {
	s.set(func(next *model.Snapshot) {
		next.ControlTests = (&model.Snapshot{ControlTests: list}).Clone().ControlTests
	})
}

// SetEvidence replaces the evidence collection
func (s *Store) SetEvidence(list []model.Evidence) {
	s.set(func(next *model.Snapshot) { next.Evidence = (&model.Snapshot{Evidence: list}).Clone().Evidence })
}

// SetIssues replaces the issues collection
func (s *Store) SetIssues(list []model.Issue) {
	s.set(func(next *model.Snapshot) { next.Issues = (&model.Snapshot{Issues: list}).Clone().Issues })
}

// SetRisks replaces the risks collection
func (s *Store) SetRisks(list []model.Risk) {
	s.set(func(next *model.Snapshot) { next.Risks = (&model.Snapshot{Risks: list}).Clone().Risks })
}

// SetKRIs replaces the KRIs collection
func (s *Store) SetKRIs(list []model.KRI) {
	s.set(func(next *model.Snapshot) { next.KRIs = (&model.Snapshot{KRIs: list}).Clone().KRIs })
}

// SetKCIs replaces the KCIs collection
func (s *Store) SetKCIs(list []model.KCI) {
	s.set(func(next *model.Snapshot) { next.KCIs = (&model.Snapshot{KCIs: list}).Clone().KCIs })
}

func (s *Store) set(apply func(next *model.Snapshot)) {
	s.commit(ReasonSet, func(cur *model.Snapshot) *model.Snapshot {
		next := *cur
		apply(&next)
		return &next
	})
}

// PatchFramework applies fn to a copy of one framework and publishes it.
// It returns false, leaving the store unchanged, when id is not present.
func (s *Store) PatchFramework(id string, fn func(*model.Framework)) bool {
	return s.patch(func(next *model.Snapshot) bool {
		var ok bool
		next.Frameworks, ok = patchByID(next.Frameworks, id, func(f model.Framework) string { return f.ID }, fn)
		return ok
	})
}

// PatchIssue applies fn to a copy of one issue and publishes it
func (s *Store) PatchIssue(id string, fn func(*model.Issue)) bool {
	return s.patch(func(next *model.Snapshot) bool {
		var ok bool
		next.Issues, ok = patchByID(next.Issues, id, func(i model.Issue) string { return i.ID }, func(i *model.Issue) {
			*i = i.Clone()
			fn(i)
		})
		return ok
	})
}

func (s *Store) patch(apply func(next *model.Snapshot) bool) bool {
	s.mu.Lock()
	next := *s.snap
	if !apply(&next) {
		s.mu.Unlock()
		return false
	}
	next.Version = s.snap.Version + 1
	s.snap = &next
	version := next.Version
	s.mu.Unlock()

	s.publish(Event{Version: version, Reason: ReasonPatch})
	return true
}

// patchByID returns a new slice with the record matching id modified by fn.
// The input slice is never written.
func patchByID[T any](list []T, id string, key func(T) string, fn func(*T)) ([]T, bool) {
	idx := slices.IndexFunc(list, func(v T) bool { return key(v) == id })
	if idx < 0 {
		return list, false
	}
	out := slices.Clone(list)
	fn(&out[idx])
	return out, true
}
