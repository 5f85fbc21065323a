package usecase

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

type PolicyUseCase struct {
	page
	Form Form[model.PolicyDraft]
}

// PolicyView is the policies page
type PolicyView struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Categories map[string]int `json:"categories"`
	Policies   []model.Policy `json:"policies"`
}

// CreatePolicy creates a policy. The status defaults to Active.
func (uc *PolicyUseCase) CreatePolicy(ctx context.Context, draft model.PolicyDraft) error {
	return uc.create(ctx, "create:policy", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreatePolicy(ctx, draft) },
		MsgPolicyCreated, MsgPolicyCreateFailed)
}

// SubmitForm sends the policy form draft
func (uc *PolicyUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreatePolicy)
}

func (uc *PolicyUseCase) View() *PolicyView {
	snap := uc.app.Snapshot()
	view := &PolicyView{
		Total:      len(snap.Policies),
		Categories: make(map[string]int),
		Policies:   snap.Policies,
	}
	for _, p := range snap.Policies {
		if p.Status == model.PolicyStatusActive {
			view.Active++
		}
		view.Categories[p.Category]++
	}
	return view
}
