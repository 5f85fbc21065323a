package types

// IssueStatus represents the lifecycle status of an issue.
// Transitions are forward only and single step: Open -> In Progress -> Resolved -> Closed.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
	IssueStatusClosed     IssueStatus = "Closed"
)

// AllIssueStatuses returns all valid issue statuses in lifecycle order
func AllIssueStatuses() []IssueStatus {
	return []IssueStatus{
		IssueStatusOpen,
		IssueStatusInProgress,
		IssueStatusResolved,
		IssueStatusClosed,
	}
}

// IsValid checks if the issue status is valid
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen,
		IssueStatusInProgress,
		IssueStatusResolved,
		IssueStatusClosed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the issue status
func (s IssueStatus) String() string {
	return string(s)
}

// Next returns the single legal successor of s. ok is false for Closed and unknown statuses.
func (s IssueStatus) Next() (next IssueStatus, ok bool) {
	switch s {
	case IssueStatusOpen:
		return IssueStatusInProgress, true
	case IssueStatusInProgress:
		return IssueStatusResolved, true
	case IssueStatusResolved:
		return IssueStatusClosed, true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether target is the next step after s
func (s IssueStatus) CanTransitionTo(target IssueStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// IsTerminal reports whether no transition leaves s
func (s IssueStatus) IsTerminal() bool {
	return s == IssueStatusClosed
}

// IsOpen reports whether the issue still counts as open work
func (s IssueStatus) IsOpen() bool {
	return s != IssueStatusResolved && s != IssueStatusClosed
}

// ActionLabel returns the label of the button that moves s forward, or "" when none exists
func (s IssueStatus) ActionLabel() string {
	switch s {
	case IssueStatusOpen:
		return "Start Progress"
	case IssueStatusInProgress:
		return "Mark Resolved"
	case IssueStatusResolved:
		return "Close Issue"
	default:
		return ""
	}
}

// AllowsException reports whether an exception may be granted at this status
func (s IssueStatus) AllowsException() bool {
	return s.IsValid() && !s.IsTerminal()
}

// ParseIssueStatus parses a string into an IssueStatus
func ParseIssueStatus(s string) (IssueStatus, error) {
	return parseEnum("issue status", s, IssueStatus.IsValid)
}
