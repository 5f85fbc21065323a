package usecase

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

type ControlUseCase struct {
	page
	Form Form[model.UnifiedControlDraft]
}

// ControlMapping is one unified control with its references resolved. Ids that resolve to
// nothing are listed in Unresolved instead of failing the view.
type ControlMapping struct {
	Control           model.UnifiedControl     `json:"control"`
	FrameworkControls []model.FrameworkControl `json:"framework_controls"`
	Policies          []model.Policy           `json:"policies"`
	LinkedRisks       []model.Risk             `json:"linked_risks"`
	Unresolved        []string                 `json:"unresolved"`
}

// MappingView is the control mapping page
type MappingView struct {
	Controls       int              `json:"controls"`
	Frameworks     int              `json:"frameworks"`
	AutomationPool int              `json:"automation_possible"`
	Mappings       []ControlMapping `json:"mappings"`
}

func (uc *ControlUseCase) CreateUnifiedControl(ctx context.Context, draft model.UnifiedControlDraft) error {
	return uc.create(ctx, "create:unified_control", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreateUnifiedControl(ctx, draft) },
		MsgControlCreated, MsgControlCreateFailed)
}

// SubmitForm sends the control form draft
func (uc *ControlUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreateUnifiedControl)
}

func (uc *ControlUseCase) MappingView() *MappingView {
	snap := uc.app.Snapshot()

	view := &MappingView{
		Controls:   len(snap.UnifiedControls),
		Frameworks: len(snap.Frameworks),
		Mappings:   make([]ControlMapping, 0, len(snap.UnifiedControls)),
	}

	for _, c := range snap.UnifiedControls {
		if c.AutomationPossible {
			view.AutomationPool++
		}

		m := ControlMapping{
			Control:     c,
			LinkedRisks: snap.RisksLinkedTo(c.ID),
		}
		for _, id := range c.MappedFrameworkControls {
			if fc, ok := snap.FrameworkControlByID(id); ok {
				m.FrameworkControls = append(m.FrameworkControls, fc)
			} else {
				m.Unresolved = append(m.Unresolved, id)
			}
		}
		for _, id := range c.MappedPolicies {
			if p, ok := snap.PolicyByID(id); ok {
				m.Policies = append(m.Policies, p)
			} else {
				m.Unresolved = append(m.Unresolved, id)
			}
		}
		view.Mappings = append(view.Mappings, m)
	}

	return view
}
