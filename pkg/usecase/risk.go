package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

// DefaultIndustry is used for risk suggestions when no industry is given
const DefaultIndustry = "General"

const intelligenceTopRisks = 10

const riskSuggestKey = "risk:suggest"

type RiskUseCase struct {
	page
	suggester interfaces.RiskSuggester
	industry  string
	Form      Form[model.RiskDraft]

	mu          sync.RWMutex
	suggestions []model.RiskSuggestion
}

// RiskInsight is one row of the risk intelligence page
type RiskInsight struct {
	Risk                 model.Risk `json:"risk"`
	ReductionPercent     float64    `json:"reduction_percent"`
	KRIs                 int        `json:"kris"`
	KCIs                 int        `json:"kcis"`
	Controls             int        `json:"controls"`
	AverageControlHealth float64    `json:"average_control_health"`
	MissingControls      []string   `json:"missing_controls,omitempty"`
}

// RiskView is the risks page
type RiskView struct {
	Total           int                    `json:"total"`
	AverageResidual float64                `json:"average_residual"`
	Categories      map[string]int         `json:"categories"`
	Insights        []RiskInsight          `json:"insights"`
	Suggestions     []model.RiskSuggestion `json:"suggestions"`
	Suggesting      bool                   `json:"suggesting"`
}

func (uc *RiskUseCase) CreateRisk(ctx context.Context, draft model.RiskDraft) error {
	return uc.create(ctx, "create:risk", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreateRisk(ctx, draft) },
		MsgRiskCreated, MsgRiskCreateFailed)
}

// SubmitForm sends the risk form draft
func (uc *RiskUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreateRisk)
}

// Suggest asks the suggestion service for the top risks of an industry and keeps them for the page
func (uc *RiskUseCase) Suggest(ctx context.Context, industry string) ([]model.RiskSuggestion, error) {
	if uc.suggester == nil {
		return nil, goerr.Wrap(ErrAnalyzerUnavailable, "no risk suggester")
	}
	if strings.TrimSpace(industry) == "" {
		industry = uc.industry
	}
	if strings.TrimSpace(industry) == "" {
		industry = DefaultIndustry
	}

	var out []model.RiskSuggestion
	err := uc.guard.do(riskSuggestKey, func() error {
		suggestions, err := uc.suggester.SuggestRisks(ctx, industry)
		if err != nil {
			uc.app.fail(ctx, err, MsgSuggestionsFailed)
			return goerr.Wrap(err, "failed to suggest risks", goerr.V("industry", industry))
		}

		uc.mu.Lock()
		uc.suggestions = slices.Clone(suggestions)
		uc.mu.Unlock()

		uc.app.notify(ctx, model.Success(MsgSuggestionsGenerated))
		out = suggestions
		return nil
	})
	return out, err
}

// Suggestions returns the suggestions of the last successful Suggest call
func (uc *RiskUseCase) Suggestions() []model.RiskSuggestion {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return slices.Clone(uc.suggestions)
}

// UseSuggestion fills the risk form with suggestion i and opens it
func (uc *RiskUseCase) UseSuggestion(i int) (model.RiskDraft, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if i < 0 || i >= len(uc.suggestions) {
		return model.RiskDraft{}, false
	}

	draft := model.DraftFromSuggestion(uc.suggestions[i])
	uc.Form.Edit(draft)
	uc.Form.Open()
	return draft, true
}

// TopRisks returns up to n risks with the highest residual score
func (uc *RiskUseCase) TopRisks(n int) []model.Risk {
	return topRisks(uc.app.Snapshot().Risks, n)
}

func topRisks(risks []model.Risk, n int) []model.Risk {
	out := slices.Clone(risks)
	slices.SortStableFunc(out, func(a, b model.Risk) int {
		return cmp.Compare(b.ResidualRiskScore, a.ResidualRiskScore)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Intelligence joins the top risks with their indicators and controls
func (uc *RiskUseCase) Intelligence() []RiskInsight {
	snap := uc.app.Snapshot()
	risks := topRisks(snap.Risks, intelligenceTopRisks)

	out := make([]RiskInsight, 0, len(risks))
	for _, r := range risks {
		out = append(out, riskInsight(snap, r))
	}
	return out
}

func riskInsight(snap *model.Snapshot, r model.Risk) RiskInsight {
	controls, missing := snap.LinkedControls(r)
	return RiskInsight{
		Risk:                 r,
		ReductionPercent:     model.RiskReduction(r),
		KRIs:                 len(snap.LinkedKRIs(r)),
		KCIs:                 len(snap.LinkedKCIs(controls)),
		Controls:             len(controls),
		AverageControlHealth: model.AverageHealth(controls),
		MissingControls:      missing,
	}
}

func (uc *RiskUseCase) View() *RiskView {
	snap := uc.app.Snapshot()
	stats := model.ComputeStats(snap)

	view := &RiskView{
		Total:           len(snap.Risks),
		AverageResidual: stats.AvgResidualRisk,
		Categories:      make(map[string]int),
		Insights:        make([]RiskInsight, 0, len(snap.Risks)),
		Suggestions:     uc.Suggestions(),
		Suggesting:      uc.busy(riskSuggestKey),
	}
	for _, r := range topRisks(snap.Risks, -1) {
		view.Categories[r.Category]++
		view.Insights = append(view.Insights, riskInsight(snap, r))
	}
	return view
}
