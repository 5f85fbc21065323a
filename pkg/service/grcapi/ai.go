package grcapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Analyze sends an analysis request to the backend's AI endpoint. The result is not post-processed.
func (c *Client) Analyze(ctx context.Context, kind types.AnalysisType, analysisContext any) (*model.Analysis, error) {
	req := model.AnalysisRequest{AnalysisType: kind, Context: analysisContext}

	var out model.Analysis
	if err := c.postJSON(ctx, "/ai/analyze", req, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to run AI analysis", goerr.V("analysis_type", kind))
	}
	return &out, nil
}

// SuggestRisks asks the backend for AI suggested risks for an industry
func (c *Client) SuggestRisks(ctx context.Context, industry string) ([]model.RiskSuggestion, error) {
	if c.routes.aiSuggest == "" {
		return nil, c.notSupported("suggest risks")
	}

	var raw json.RawMessage
	err := c.call(ctx, http.MethodPost, c.routes.aiSuggest, func(r *resty.Request) {
		r.SetQueryParam("industry", industry)
	}, &raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk suggestions", goerr.V("industry", industry))
	}

	suggestions, err := decodeSuggestions(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk suggestions", goerr.V("industry", industry))
	}
	return suggestions, nil
}

// decodeSuggestions accepts a bare list or a list wrapped as {"suggestions": [...]}
func decodeSuggestions(raw json.RawMessage) ([]model.RiskSuggestion, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []model.RiskSuggestion
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Suggestions []model.RiskSuggestion `json:"suggestions"`
		Risks       []model.RiskSuggestion `json:"risks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, goerr.Wrap(err, "unexpected suggestion payload")
	}
	if wrapped.Suggestions != nil {
		return wrapped.Suggestions, nil
	}
	return wrapped.Risks, nil
}
