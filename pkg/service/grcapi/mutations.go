package grcapi

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// ToggleFramework enables or disables a framework
func (c *Client) ToggleFramework(ctx context.Context, id string, enabled bool) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("toggle framework")
	}
	err := c.call(ctx, http.MethodPatch, "/frameworks/{id}/toggle", func(r *resty.Request) {
		r.SetPathParam("id", id).SetQueryParam("enabled", strconv.FormatBool(enabled))
	}, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to toggle framework", goerr.V("framework_id", id), goerr.V("enabled", enabled))
	}
	return nil
}

// CreateUnifiedControl creates a unified control
func (c *Client) CreateUnifiedControl(ctx context.Context, d model.UnifiedControlDraft) error {
	if err := c.postJSON(ctx, c.routes.controls, d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create unified control", goerr.V("ccf_id", d.CCFID))
	}
	return nil
}

// CreatePolicy creates a policy
func (c *Client) CreatePolicy(ctx context.Context, d model.PolicyDraft) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("create policy")
	}
	if err := c.postJSON(ctx, "/policies", d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create policy", goerr.V("policy_id", d.PolicyID))
	}
	return nil
}

// CreateControlTest records a control test. A failing result makes the backend open an issue.
func (c *Client) CreateControlTest(ctx context.Context, d model.ControlTestDraft) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("create control test")
	}
	if err := c.postJSON(ctx, "/control-tests", d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create control test", goerr.V("unified_control_id", d.UnifiedControlID))
	}
	return nil
}

// CreateIssue opens an issue
func (c *Client) CreateIssue(ctx context.Context, d model.IssueDraft) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("create issue")
	}
	if err := c.postJSON(ctx, "/issues", d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create issue", goerr.V("title", d.Title))
	}
	return nil
}

// CreateRisk creates a risk
func (c *Client) CreateRisk(ctx context.Context, d model.RiskDraft) error {
	if err := c.postJSON(ctx, "/risks", d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create risk", goerr.V("name", d.Name))
	}
	return nil
}

// CreateKRI creates a KRI
func (c *Client) CreateKRI(ctx context.Context, d model.KRIDraft) error {
	if err := c.postJSON(ctx, "/kris", d.Body(), nil); err != nil {
		return goerr.Wrap(err, "failed to create KRI", goerr.V("name", d.Name))
	}
	return nil
}

// CreateKCI creates a KCI
func (c *Client) CreateKCI(ctx context.Context, d model.KCIDraft) error {
	body := any(d)
	if c.variant == types.VariantIntelligence {
		// The lean API names the control reference control_id
		body = struct {
			model.KCIDraft
			ControlID string `json:"control_id"`
		}{KCIDraft: d, ControlID: d.UnifiedControlID}
	}
	if err := c.postJSON(ctx, "/kcis", body, nil); err != nil {
		return goerr.Wrap(err, "failed to create KCI", goerr.V("name", d.Name))
	}
	return nil
}

// UploadEvidence sends a manual evidence file as multipart form data
func (c *Client) UploadEvidence(ctx context.Context, u model.EvidenceUpload) error {
	if c.routes.evidenceUpload == "" {
		return c.notSupported("upload evidence")
	}

	err := c.call(ctx, http.MethodPost, c.routes.evidenceUpload, func(r *resty.Request) {
		r.SetFileReader("file", u.FileName, bytes.NewReader(u.Content)).
			SetFormData(map[string]string{
				"control_test_id":    model.ManualUploadTestID,
				"unified_control_id": u.UnifiedControlID,
				"description":        u.Description,
			})
	}, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to upload evidence",
			goerr.V("unified_control_id", u.UnifiedControlID),
			goerr.V("file_name", u.FileName))
	}
	return nil
}

// UpdateIssueStatus sets an issue's status
func (c *Client) UpdateIssueStatus(ctx context.Context, id string, status types.IssueStatus) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("update issue status")
	}
	err := c.call(ctx, http.MethodPatch, "/issues/{id}/status", func(r *resty.Request) {
		r.SetPathParam("id", id).SetQueryParam("status", status.String())
	}, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to update issue status", goerr.V("issue_id", id), goerr.V("status", status))
	}
	return nil
}

// GrantException attaches an approved exception to an issue
func (c *Client) GrantException(ctx context.Context, id string, details model.ExceptionDetails) error {
	if !c.routes.enterpriseOnly {
		return c.notSupported("grant exception")
	}
	body := struct {
		ExceptionDetails model.ExceptionDetails `json:"exception_details"`
	}{ExceptionDetails: details}

	err := c.call(ctx, http.MethodPatch, "/issues/{id}/exception", func(r *resty.Request) {
		r.SetPathParam("id", id).
			SetHeader("Content-Type", "application/json").
			SetBody(body)
	}, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to grant exception", goerr.V("issue_id", id))
	}
	return nil
}
