package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

type FrameworkUseCase struct {
	page
}

// FrameworkSummary is the header of the frameworks page
type FrameworkSummary struct {
	Total         int     `json:"total"`
	Enabled       int     `json:"enabled"`
	TotalControls int     `json:"total_controls"`
	Coverage      float64 `json:"coverage"`
}

// FrameworkRow is one framework with the number of catalog entries loaded for it
type FrameworkRow struct {
	model.Framework
	LoadedControls int `json:"loaded_controls"`
}

// FrameworkView is the frameworks page
type FrameworkView struct {
	Summary    FrameworkSummary `json:"summary"`
	Frameworks []FrameworkRow   `json:"frameworks"`
}

func toggleKey(id string) string { return "framework:toggle:" + id }

// Toggle enables or disables a framework. The local record is patched only after the
// backend accepted the change; on failure the store is left unchanged.
func (uc *FrameworkUseCase) Toggle(ctx context.Context, id string, enabled bool) error {
	return uc.guard.do(toggleKey(id), func() error {
		if err := uc.gateway.ToggleFramework(ctx, id, enabled); err != nil {
			uc.app.fail(ctx, err, MsgFrameworkUpdateFailed)
			return goerr.Wrap(err, "failed to toggle framework", goerr.V(FrameworkIDKey, id))
		}

		uc.app.Mutators().PatchFramework(id, func(f *model.Framework) {
			f.Enabled = enabled
		})

		msg := MsgFrameworkDisabled
		if enabled {
			msg = MsgFrameworkEnabled
		}
		uc.app.notify(ctx, model.Success(msg))
		return nil
	})
}

func (uc *FrameworkUseCase) Summary() FrameworkSummary {
	return frameworkSummary(uc.app.Snapshot().Frameworks)
}

func frameworkSummary(frameworks []model.Framework) FrameworkSummary {
	var enabled int
	for _, f := range frameworks {
		if f.Enabled {
			enabled++
		}
	}
	return FrameworkSummary{
		Total:         len(frameworks),
		Enabled:       enabled,
		TotalControls: model.EnabledControlTotal(frameworks),
		Coverage:      model.FrameworkCoverage(frameworks),
	}
}

func (uc *FrameworkUseCase) View() *FrameworkView {
	snap := uc.app.Snapshot()
	view := &FrameworkView{
		Summary:    frameworkSummary(snap.Frameworks),
		Frameworks: make([]FrameworkRow, 0, len(snap.Frameworks)),
	}
	for _, f := range snap.Frameworks {
		view.Frameworks = append(view.Frameworks, FrameworkRow{
			Framework:      f,
			LoadedControls: len(snap.FrameworkControls[f.ID]),
		})
	}
	return view
}

// LoadFrameworkControls fetches the catalogs of all enabled frameworks
func (uc *FrameworkUseCase) LoadFrameworkControls(ctx context.Context) error {
	return uc.guard.do("framework:controls", func() error {
		if err := uc.app.store.RefreshFrameworkControls(ctx); err != nil {
			uc.app.fail(ctx, err, MsgFetchFailed)
			return err
		}
		return nil
	})
}
