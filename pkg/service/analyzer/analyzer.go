package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

const (
	// MaxSuggestions is the number of risks SuggestRisks returns at most
	MaxSuggestions = 10
	// DefaultIndustry is used when no industry is given
	DefaultIndustry = "General"
	// FallbackRecommendation is returned when the model answered with plain text
	FallbackRecommendation = "Review analysis for specific action items"
)

// Client runs GRC analyses directly against an LLM
type Client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for Client configuration
type Option func(*Client)

// New creates a new analyzer with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &Client{llmClient: llmClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Analyze implements interfaces.Analyzer
func (c *Client) Analyze(ctx context.Context, kind types.AnalysisType, analysisContext any) (*model.Analysis, error) {
	raw, err := json.Marshal(analysisContext)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode analysis context", goerr.V("kind", kind))
	}

	text, err := c.generate(ctx, buildAnalysisSchema(), buildAnalysisPrompt(kind, string(raw)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run analysis", goerr.V("kind", kind))
	}

	return parseAnalysis(text), nil
}

// SuggestRisks implements interfaces.RiskSuggester
func (c *Client) SuggestRisks(ctx context.Context, industry string) ([]model.RiskSuggestion, error) {
	if strings.TrimSpace(industry) == "" {
		industry = DefaultIndustry
	}

	text, err := c.generate(ctx, buildSuggestionSchema(), buildSuggestionPrompt(industry))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to suggest risks", goerr.V("industry", industry))
	}

	var resp suggestionResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", text))
	}

	if len(resp.Risks) > MaxSuggestions {
		resp.Risks = resp.Risks[:MaxSuggestions]
	}
	return resp.Risks, nil
}

func (c *Client) generate(ctx context.Context, schema *gollem.Parameter, prompt string) (string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(prompt)})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("empty response from LLM")
	}

	return strings.Join(resp.Texts, ""), nil
}

const systemPrompt = "You are a GRC (Governance, Risk, and Compliance) expert AI assistant. Provide strategic, actionable insights."

// buildAnalysisPrompt creates the user prompt for one analysis kind
func buildAnalysisPrompt(kind types.AnalysisType, contextJSON string) string {
	var sb strings.Builder

	switch kind {
	case types.AnalysisTypeControlHealthImpact:
		sb.WriteString("Analyze how control health impacts risk rating:\n")
		fmt.Fprintf(&sb, "Context: %s\n\n", contextJSON)
		sb.WriteString("Provide:\n")
		sb.WriteString("1. Impact analysis of control health on risk score\n")
		sb.WriteString("2. Specific recommendations to improve control effectiveness\n")
		sb.WriteString("3. Priority actions\n")

	case types.AnalysisTypeRiskKRIMapping:
		sb.WriteString("Analyze Risk-KRI-KCI relationships:\n")
		fmt.Fprintf(&sb, "Context: %s\n\n", contextJSON)
		sb.WriteString("Provide:\n")
		sb.WriteString("1. Analysis of KRI effectiveness for risk monitoring\n")
		sb.WriteString("2. Recommendations for KCI improvements\n")
		sb.WriteString("3. Automated monitoring suggestions\n")

	case types.AnalysisTypeCCFMapping:
		sb.WriteString("Map CCF controls to internal policy:\n")
		fmt.Fprintf(&sb, "Context: %s\n\n", contextJSON)
		sb.WriteString("Provide:\n")
		sb.WriteString("1. Mapping analysis and coverage gaps\n")
		sb.WriteString("2. Recommendations for policy alignment\n")
		sb.WriteString("3. Automation opportunities\n")

	default:
		sb.WriteString("Analyze GRC data:\n")
		fmt.Fprintf(&sb, "Context: %s\n\n", contextJSON)
		sb.WriteString("Provide strategic insights and actionable recommendations.\n")
	}

	sb.WriteString("\nFormat as JSON with 'analysis' and 'recommendations' keys.")
	return sb.String()
}

// buildSuggestionPrompt creates the user prompt for risk suggestions
func buildSuggestionPrompt(industry string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "As a GRC expert, suggest top %d risks for %s industry.\n\n", MaxSuggestions, industry)
	sb.WriteString("For each risk, provide:\n")
	sb.WriteString("- name: A short risk name\n")
	sb.WriteString("- description: A brief description\n")
	sb.WriteString("- category: The risk category (e.g. Operational, Security, Compliance, Financial)\n")
	sb.WriteString("- inherent_score: The inherent risk score between 1 and 10\n")
	return sb.String()
}

type analysisResponse struct {
	Analysis        *string  `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// parseAnalysis keeps the model text as is. A reply that is not the expected JSON object
// becomes the analysis body with a generic recommendation.
func parseAnalysis(text string) *model.Analysis {
	var resp analysisResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return &model.Analysis{
			Analysis:        text,
			Recommendations: []string{FallbackRecommendation},
		}
	}

	out := &model.Analysis{Analysis: text, Recommendations: resp.Recommendations}
	if resp.Analysis != nil {
		out.Analysis = *resp.Analysis
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out
}

type suggestionResponse struct {
	Risks []model.RiskSuggestion `json:"risks"`
}

func buildAnalysisSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "GRCAnalysis",
		Description: "Analysis of GRC data with actionable recommendations",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"analysis": {
				Type:        gollem.TypeString,
				Description: "The analysis text",
				Required:    true,
			},
			"recommendations": {
				Type:        gollem.TypeArray,
				Description: "Specific, prioritised recommendations",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
		},
	}
}

func buildSuggestionSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "RiskSuggestions",
		Description: "Suggested risks for an industry",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"risks": {
				Type:        gollem.TypeArray,
				Description: "Suggested risks, most significant first",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"name": {
							Type:        gollem.TypeString,
							Description: "Risk name",
							Required:    true,
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "Brief description of the risk",
							Required:    true,
						},
						"category": {
							Type:        gollem.TypeString,
							Description: "Risk category",
							Required:    true,
						},
						"inherent_score": {
							Type:        gollem.TypeNumber,
							Description: "Inherent risk score between 1 and 10",
							Required:    true,
						},
					},
				},
				Required: true,
			},
		},
	}
}
