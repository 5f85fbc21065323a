package usecase

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

type KRIUseCase struct {
	page
	Form Form[model.KRIDraft]
}

// KRIRow is one KRI with its utilization. BarWidth is the utilization capped for a progress bar.
type KRIRow struct {
	model.KRI
	RiskName    string  `json:"risk_name"`
	Utilization float64 `json:"utilization"`
	BarWidth    float64 `json:"bar_width"`
}

// KRIBoard is the KRI page
type KRIBoard struct {
	Total  int                     `json:"total"`
	Counts map[types.KRIStatus]int `json:"counts"`
	Rows   []KRIRow                `json:"rows"`
}

// CreateKRI creates a KRI. A new KRI has no KCIs.
func (uc *KRIUseCase) CreateKRI(ctx context.Context, draft model.KRIDraft) error {
	return uc.create(ctx, "create:kri", draft.Validate,
		func(ctx context.Context) error { return uc.gateway.CreateKRI(ctx, draft) },
		MsgKRICreated, MsgKRICreateFailed)
}

// SubmitForm sends the KRI form draft
func (uc *KRIUseCase) SubmitForm(ctx context.Context) error {
	return uc.Form.Submit(ctx, uc.CreateKRI)
}

func (uc *KRIUseCase) Board() *KRIBoard {
	snap := uc.app.Snapshot()
	board := &KRIBoard{
		Total:  len(snap.KRIs),
		Counts: make(map[types.KRIStatus]int),
		Rows:   make([]KRIRow, 0, len(snap.KRIs)),
	}

	for _, k := range snap.KRIs {
		board.Counts[k.Status]++

		row := KRIRow{
			KRI:         k,
			Utilization: model.KRIUtilization(k),
		}
		row.BarWidth = model.ProgressWidth(row.Utilization)
		if r, ok := snap.RiskByID(k.RiskID); ok {
			row.RiskName = r.Name
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}
