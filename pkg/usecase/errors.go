package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Guard errors
	ErrBusy = errors.New("operation already in progress")

	// Not found errors
	ErrFrameworkNotFound = errors.New("framework not found")
	ErrIssueNotFound     = errors.New("issue not found")
	ErrRiskNotFound      = errors.New("risk not found")
	ErrControlNotFound   = errors.New("unified control not found")

	// Issue lifecycle errors
	ErrInvalidTransition   = errors.New("issue status transition not allowed")
	ErrExceptionNotAllowed = errors.New("exception not allowed for issue")

	// Other errors
	ErrAnalyzerUnavailable = errors.New("analysis service is not configured")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
)

// Context keys for error values
const (
	FrameworkIDKey = "framework_id"
	IssueIDKey     = "issue_id"
	RiskIDKey      = "risk_id"
	ControlIDKey   = "control_id"
	StatusKey      = "status"
)
