package interfaces

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Fetcher reads collections from the GRC backend
type Fetcher interface {
	// FetchCollection fetches one collection and stores it into dst
	FetchCollection(ctx context.Context, c types.Collection, dst *model.Snapshot) error

	// ListFrameworkControls fetches the control catalog of one framework
	ListFrameworkControls(ctx context.Context, frameworkID string) ([]model.FrameworkControl, error)
}

// Gateway is the full HTTP boundary to the GRC backend
type Gateway interface {
	Fetcher

	// Seed asks the backend to create baseline demo data. Repeated calls are no-ops.
	Seed(ctx context.Context) error

	// DashboardStats returns server-computed aggregates
	DashboardStats(ctx context.Context) (*model.DashboardStats, error)

	// ToggleFramework enables or disables a framework
	ToggleFramework(ctx context.Context, id string, enabled bool) error

	CreateUnifiedControl(ctx context.Context, d model.UnifiedControlDraft) error
	CreatePolicy(ctx context.Context, d model.PolicyDraft) error
	CreateControlTest(ctx context.Context, d model.ControlTestDraft) error
	CreateIssue(ctx context.Context, d model.IssueDraft) error
	CreateRisk(ctx context.Context, d model.RiskDraft) error
	CreateKRI(ctx context.Context, d model.KRIDraft) error
	CreateKCI(ctx context.Context, d model.KCIDraft) error

	// UploadEvidence sends a manual evidence file as multipart form data
	UploadEvidence(ctx context.Context, u model.EvidenceUpload) error

	// UpdateIssueStatus sets an issue's status. The backend does not validate the transition.
	UpdateIssueStatus(ctx context.Context, id string, status types.IssueStatus) error

	// GrantException attaches an exception to an issue
	GrantException(ctx context.Context, id string, details model.ExceptionDetails) error

	// BaseURL returns the API base URL, e.g. http://localhost:8000/api
	BaseURL() string
}
