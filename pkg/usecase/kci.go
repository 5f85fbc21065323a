package usecase

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

type KCIUseCase struct {
	page
	Form Form[model.KCIDraft]
}

// KCIRow is one KCI with its performance against target
type KCIRow struct {
	model.KCI
	ControlName string  `json:"control_name"`
	KRIName     string  `json:"kri_name"`
	Performance float64 `json:"performance"`
	BarWidth    float64 `json:"bar_width"`
}

// KCIBoard is the KCI page
type KCIBoard struct {
	Total  int                     `json:"total"`
	Counts map[types.KCIStatus]int `json:"counts"`
	Rows   []KCIRow                `json:"rows"`
}

func (uc *KCIUseCase) CreateKCI(ctx context.Context, draft model.KCIDraft) error {
	return uc.create(ctx, "create:kci", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreateKCI(ctx, draft) },
		MsgKCICreated, MsgKCICreateFailed)
}

// SubmitForm sends the KCI form draft
func (uc *KCIUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreateKCI)
}

func (uc *KCIUseCase) Board() *KCIBoard {
	snap := uc.app.Snapshot()
	board := &KCIBoard{
		Total:  len(snap.KCIs),
		Counts: make(map[types.KCIStatus]int),
		Rows:   make([]KCIRow, 0, len(snap.KCIs)),
	}

	for _, k := range snap.KCIs {
		board.Counts[k.Status]++

		row := KCIRow{
			KCI:         k,
			ControlName: controlName(snap, k.UnifiedControlID),
			Performance: model.KCIPerformance(k),
		}
		row.BarWidth = model.ProgressWidth(row.Performance)
		if kri, ok := snap.KRIByID(k.KRIID); ok {
			row.KRIName = kri.Name
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}
