package usecase

import (
	"context"
	"errors"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

type EvidenceUseCase struct {
	page
}

// EvidenceStats is the header of the evidence page
type EvidenceStats struct {
	Total          int      `json:"total"`
	Automated      int      `json:"automated"`
	Manual         int      `json:"manual"`
	AutomationRate float64  `json:"automation_rate"`
	Types          []string `json:"types"`
}

// EvidenceRow is one evidence record with the name of its control
type EvidenceRow struct {
	model.Evidence
	ControlName string `json:"control_name"`
}

// EvidenceView is the evidence page
type EvidenceView struct {
	Stats    EvidenceStats `json:"stats"`
	Evidence []EvidenceRow `json:"evidence"`
}

func uploadKey(controlID string) string { return "evidence:upload:" + controlID }

// Upload sends a manually collected evidence file. Without a file nothing is sent.
func (uc *EvidenceUseCase) Upload(ctx context.Context, upload model.EvidenceUpload) error {
	if err := upload.Validate(); err != nil {
		if errors.Is(err, model.ErrNoFile) {
			uc.app.notify(ctx, model.Failure(MsgSelectFile))
		} else {
			uc.app.notify(ctx, model.Failure(MsgRequiredFields))
		}
		return err
	}

	return uc.guard.do(uploadKey(upload.UnifiedControlID), func() error {
		if err := uc.gateway.UploadEvidence(ctx, upload); err != nil {
			uc.app.fail(ctx, err, MsgEvidenceUploadFailed)
			return goerr.Wrap(err, "failed to upload evidence",
				goerr.V(ControlIDKey, upload.UnifiedControlID),
				goerr.V("file_name", upload.FileName))
		}
		uc.app.notify(ctx, model.Success(MsgEvidenceUploaded))

		_ = uc.app.RefreshAll(ctx)
		return nil
	})
}

func (uc *EvidenceUseCase) Stats() EvidenceStats {
	return evidenceStats(uc.app.Snapshot().Evidence)
}

func evidenceStats(evidence []model.Evidence) EvidenceStats {
	stats := EvidenceStats{
		Total:          len(evidence),
		AutomationRate: model.AutomationRate(evidence),
		Types:          []string{},
	}
	for _, e := range evidence {
		if e.Automated {
			stats.Automated++
		} else {
			stats.Manual++
		}
		if e.EvidenceType != "" && !slices.Contains(stats.Types, e.EvidenceType) {
			stats.Types = append(stats.Types, e.EvidenceType)
		}
	}
	return stats
}

// ControlName returns the name of a unified control, or "Unknown Control"
func (uc *EvidenceUseCase) ControlName(id string) string {
	return controlName(uc.app.Snapshot(), id)
}

func controlName(snap *model.Snapshot, id string) string {
	if c, ok := snap.UnifiedControlByID(id); ok {
		return c.Name
	}
	return MsgUnknownControl
}

func (uc *EvidenceUseCase) View() *EvidenceView {
	snap := uc.app.Snapshot()
	view := &EvidenceView{
		Stats:    evidenceStats(snap.Evidence),
		Evidence: make([]EvidenceRow, 0, len(snap.Evidence)),
	}
	for _, e := range snap.Evidence {
		view.Evidence = append(view.Evidence, EvidenceRow{
			Evidence:    e,
			ControlName: controlName(snap, e.UnifiedControlID),
		})
	}
	return view
}
