package grcapi

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Seed asks the backend to create its baseline demo data
func (c *Client) Seed(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, c.routes.seed, nil, nil)
}

// FetchCollection fetches collection col and stores the list, unchanged, into dst
func (c *Client) FetchCollection(ctx context.Context, col types.Collection, dst *model.Snapshot) error {
	if !c.variant.Serves(col) {
		return c.notSupported("fetch " + col.String())
	}
	path := c.routes.collectionPath(col)

	var err error
	switch col {
	case types.CollectionFrameworks:
		err = fetchInto(ctx, c, path, &dst.Frameworks)
	case types.CollectionUnifiedControls:
		err = fetchInto(ctx, c, path, &dst.UnifiedControls)
	case types.CollectionPolicies:
		err = fetchInto(ctx, c, path, &dst.Policies)
	case types.CollectionControlTests:
		err = fetchInto(ctx, c, path, &dst.ControlTests)
	case types.CollectionEvidence:
		err = fetchInto(ctx, c, path, &dst.Evidence)
	case types.CollectionIssues:
		err = fetchInto(ctx, c, path, &dst.Issues)
	case types.CollectionRisks:
		err = fetchInto(ctx, c, path, &dst.Risks)
	case types.CollectionKRIs:
		err = fetchInto(ctx, c, path, &dst.KRIs)
	case types.CollectionKCIs:
		err = fetchInto(ctx, c, path, &dst.KCIs)
	default:
		return goerr.New("unknown collection", goerr.V("collection", col))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to fetch collection", goerr.V("collection", col))
	}
	return nil
}

// fetchInto decodes into a fresh slice and assigns it only on success
func fetchInto[T any](ctx context.Context, c *Client, path string, dst *[]T) error {
	var out []T
	if err := c.get(ctx, path, &out); err != nil {
		return err
	}
	*dst = out
	return nil
}

// ListFrameworkControls fetches the control catalog of one framework
func (c *Client) ListFrameworkControls(ctx context.Context, frameworkID string) ([]model.FrameworkControl, error) {
	if !c.routes.enterpriseOnly {
		return nil, c.notSupported("list framework controls")
	}

	var out []model.FrameworkControl
	err := c.call(ctx, http.MethodGet, "/framework-controls/{id}", func(r *resty.Request) {
		r.SetPathParam("id", frameworkID)
	}, &out)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list framework controls", goerr.V("framework_id", frameworkID))
	}

	for i := range out {
		if out[i].FrameworkID == "" {
			out[i].FrameworkID = frameworkID
		}
	}
	return out, nil
}

// DashboardStats returns the backend's aggregate metrics
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if c.routes.dashboardStats == "" {
		return nil, c.notSupported("dashboard stats")
	}

	var stats model.DashboardStats
	if err := c.get(ctx, c.routes.dashboardStats, &stats); err != nil {
		return nil, goerr.Wrap(err, "failed to get dashboard stats")
	}
	return &stats, nil
}
