package analyzer_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/analyzer"
)

func replying(texts ...string) (*mock.LLMClientMock, *mock.SessionMock) {
	session := &mock.SessionMock{
		GenerateFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
			return &gollem.Response{Texts: texts}, nil
		},
	}
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return session, nil
		},
	}, session
}

func promptOf(t *testing.T, session *mock.SessionMock, i int) string {
	t.Helper()
	calls := session.GenerateCalls()
	gt.N(t, len(calls)).Greater(i).Required()
	gt.Array(t, calls[i].Input).Length(1).Required()
	text, ok := calls[i].Input[0].(gollem.Text)
	gt.B(t, ok).True().Required()
	return string(text)
}

func TestNew(t *testing.T) {
	_, err := analyzer.New(nil)
	gt.Value(t, err).NotNil()
}

func TestAnalyze(t *testing.T) {
	t.Run("returns structured output", func(t *testing.T) {
		llm, session := replying(`{"analysis":"Controls are weak","recommendations":["Automate access reviews"]}`)
		c, err := analyzer.New(llm)
		gt.NoError(t, err).Required()

		result, err := c.Analyze(context.Background(), types.AnalysisTypeControlHealthImpact, model.ControlHealthContext{
			Risk:                 model.RiskRef{Name: "Data Breach", InherentScore: 8, ResidualScore: 5},
			AverageControlHealth: 72.5,
			RiskReduction:        "37.5",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Analysis).Equal("Controls are weak")
		gt.Value(t, result.Recommendations).Equal([]string{"Automate access reviews"})

		gt.A(t, llm.NewSessionCalls()).Length(1)
		gt.A(t, session.GenerateCalls()).Length(1).Required()
		prompt := promptOf(t, session, 0)
		gt.String(t, prompt).Contains(`"risk_reduction":"37.5"`)
		gt.String(t, prompt).Contains("Analyze how control health impacts risk rating")
	})

	t.Run("keeps plain text replies verbatim", func(t *testing.T) {
		llm, _ := replying("Plain text answer")
		c, err := analyzer.New(llm)
		gt.NoError(t, err).Required()

		result, err := c.Analyze(context.Background(), types.AnalysisTypeCCFMapping, map[string]any{})
		gt.NoError(t, err).Required()
		gt.Value(t, result.Analysis).Equal("Plain text answer")
		gt.Value(t, result.Recommendations).Equal([]string{analyzer.FallbackRecommendation})
	})

	t.Run("propagates LLM failure", func(t *testing.T) {
		llm, session := replying()
		session.GenerateFunc = func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
			return nil, errors.New("quota exceeded")
		}
		c, err := analyzer.New(llm)
		gt.NoError(t, err).Required()

		_, err = c.Analyze(context.Background(), types.AnalysisTypeRiskKRIMapping, map[string]any{})
		gt.Value(t, err).NotNil()
	})
}

func TestSuggestRisks(t *testing.T) {
	var risks []string
	for i := 0; i < 12; i++ {
		risks = append(risks, fmt.Sprintf(`{"name":"Risk %d","description":"d","category":"Security","inherent_score":7.5}`, i))
	}
	llm, session := replying(`{"risks":[` + strings.Join(risks, ",") + `]}`)
	c, err := analyzer.New(llm)
	gt.NoError(t, err).Required()

	got, err := c.SuggestRisks(context.Background(), "")
	gt.NoError(t, err).Required()
	gt.Array(t, got).Length(analyzer.MaxSuggestions).Required()
	gt.Value(t, got[0].InherentScore).Equal(7.5)
	gt.String(t, promptOf(t, session, 0)).Contains("for General industry")
}

func TestAnalyze_EmptyResponse(t *testing.T) {
	llm, _ := replying()
	c, err := analyzer.New(llm)
	gt.NoError(t, err).Required()

	_, err = c.Analyze(context.Background(), types.AnalysisTypeCCFMapping, map[string]any{})
	gt.Value(t, err).NotNil()
}

func TestResponseSchemas(t *testing.T) {
	t.Run("analysis", func(t *testing.T) {
		schema := analyzer.BuildAnalysisSchema()
		gt.Value(t, schema.Type).Equal(gollem.TypeObject)
		gt.B(t, schema.Properties["analysis"].Required).True()
		gt.B(t, schema.Properties["recommendations"].Required).True()
		gt.Value(t, schema.Properties["recommendations"].Items.Type).Equal(gollem.TypeString)
		gt.NoError(t, schema.Validate())
	})

	t.Run("suggestions", func(t *testing.T) {
		schema := analyzer.BuildSuggestionSchema()
		risks := schema.Properties["risks"]
		gt.B(t, risks.Required).True()
		for _, name := range []string{"name", "description", "category", "inherent_score"} {
			gt.B(t, risks.Items.Properties[name].Required).True()
		}
		gt.NoError(t, schema.Validate())
	})
}

func TestBuildAnalysisPrompt(t *testing.T) {
	testCases := []struct {
		kind types.AnalysisType
		want string
	}{
		{types.AnalysisTypeControlHealthImpact, "Priority actions"},
		{types.AnalysisTypeRiskKRIMapping, "Analysis of KRI effectiveness for risk monitoring"},
		{types.AnalysisTypeCCFMapping, "Mapping analysis and coverage gaps"},
		{types.AnalysisType("other"), "Provide strategic insights and actionable recommendations."},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			prompt := analyzer.BuildAnalysisPrompt(tc.kind, `{"k":1}`)
			gt.String(t, prompt).Contains(tc.want)
			gt.String(t, prompt).Contains(`Context: {"k":1}`)
			gt.String(t, prompt).Contains("Format as JSON with 'analysis' and 'recommendations' keys.")
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Run("missing analysis key keeps raw text", func(t *testing.T) {
		raw := `{"recommendations":["a"]}`
		got := analyzer.ParseAnalysis(raw)
		gt.Value(t, got.Analysis).Equal(raw)
		gt.Value(t, got.Recommendations).Equal([]string{"a"})
	})

	t.Run("missing recommendations is empty", func(t *testing.T) {
		got := analyzer.ParseAnalysis(`{"analysis":"x"}`)
		gt.Array(t, got.Recommendations).Length(0)
	})
}

func TestAnalyze_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()

	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	c, err := analyzer.New(llmClient)
	gt.NoError(t, err).Required()

	t.Run("risk KRI mapping", func(t *testing.T) {
		result, err := c.Analyze(ctx, types.AnalysisTypeRiskKRIMapping, model.RiskKRIContext{
			Risk: model.RiskRef{Name: "Unauthorized Access", InherentScore: 8, ResidualScore: 4, Category: "Security"},
			KRIs: []model.KRIRef{{Name: "Failed logins", CurrentValue: 120, Threshold: 100, Status: types.KRIStatusWarning, Trend: types.TrendIncreasing}},
		})
		gt.NoError(t, err).Required()
		gt.String(t, result.Analysis).NotEqual("")
		t.Logf("analysis: %s", result.Analysis)
	})

	t.Run("risk suggestions", func(t *testing.T) {
		suggestions, err := c.SuggestRisks(ctx, "Financial Services")
		gt.NoError(t, err).Required()
		gt.B(t, len(suggestions) <= analyzer.MaxSuggestions).True()
	})
}
