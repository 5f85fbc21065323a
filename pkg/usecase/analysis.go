package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// defaultCCFFrameworks are offered to a ccf_mapping analysis when no framework is enabled
var defaultCCFFrameworks = []string{"ISO 27001", "SOC 2", "GDPR", "NIST CSF", "PCI-DSS"}

type AnalysisUseCase struct {
	page
	analyzer interfaces.Analyzer

	mu     sync.RWMutex
	panels map[types.AnalysisType]model.AnalysisPanel
}

func (uc *AnalysisUseCase) AnalyzeRiskKRIMapping(ctx context.Context, riskID string) (*model.AnalysisPanel, error) {
	snap := uc.app.Snapshot()
	risk, ok := snap.RiskByID(riskID)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "no such risk", goerr.V(RiskIDKey, riskID))
	}

	return uc.run(ctx, types.AnalysisTypeRiskKRIMapping, risk.ID, risk.Name, riskKRIContext(snap, risk),
		MsgRiskKRIAnalyzed, MsgRiskKRIAnalysisFailed)
}

func (uc *AnalysisUseCase) AnalyzeControlHealthImpact(ctx context.Context, riskID string) (*model.AnalysisPanel, error) {
	snap := uc.app.Snapshot()
	risk, ok := snap.RiskByID(riskID)
	if !ok {
		return nil, goerr.Wrap(ErrRiskNotFound, "no such risk", goerr.V(RiskIDKey, riskID))
	}

	return uc.run(ctx, types.AnalysisTypeControlHealthImpact, risk.ID, risk.Name, controlHealthContext(snap, risk),
		MsgControlImpactAnalyzed, MsgControlImpactFailed)
}

func (uc *AnalysisUseCase) AnalyzeCCFMapping(ctx context.Context, controlID string) (*model.AnalysisPanel, error) {
	snap := uc.app.Snapshot()
	control, ok := snap.UnifiedControlByID(controlID)
	if !ok {
		return nil, goerr.Wrap(ErrControlNotFound, "no such control", goerr.V(ControlIDKey, controlID))
	}

	return uc.run(ctx, types.AnalysisTypeCCFMapping, control.ID, control.Name, ccfMappingContext(snap, control),
		MsgCCFMappingAnalyzed, MsgCCFMappingFailed)
}

// Analyze dispatches to the analysis of kind. id is a risk id, or a unified control id for ccf_mapping.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, kind types.AnalysisType, id string) (*model.AnalysisPanel, error) {
	switch kind {
	case types.AnalysisTypeRiskKRIMapping:
		return uc.AnalyzeRiskKRIMapping(ctx, id)
	case types.AnalysisTypeControlHealthImpact:
		return uc.AnalyzeControlHealthImpact(ctx, id)
	case types.AnalysisTypeCCFMapping:
		return uc.AnalyzeCCFMapping(ctx, id)
	default:
		return nil, goerr.Wrap(ErrUnknownAnalysisType, "cannot analyze", goerr.V("type", kind))
	}
}

// Panel returns the last successful analysis of kind
func (uc *AnalysisUseCase) Panel(kind types.AnalysisType) (model.AnalysisPanel, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	p, ok := uc.panels[kind]
	return p, ok
}

func (uc *AnalysisUseCase) run(ctx context.Context, kind types.AnalysisType, subjectID, subjectName string, analysisContext any, okMsg, failMsg string) (*model.AnalysisPanel, error) {
	if uc.analyzer == nil {
		return nil, goerr.Wrap(ErrAnalyzerUnavailable, "no analyzer", goerr.V("type", kind))
	}

	var panel *model.AnalysisPanel
	err := uc.guard.do("analysis:"+kind.String(), func() error {
		result, err := uc.analyzer.Analyze(ctx, kind, analysisContext)
		if err != nil {
			uc.app.fail(ctx, err, failMsg)
			return goerr.Wrap(err, "analysis failed", goerr.V("type", kind), goerr.V("subject_id", subjectID))
		}

		p := model.AnalysisPanel{
			Type:        kind,
			SubjectID:   subjectID,
			SubjectName: subjectName,
			Result:      *result,
		}
		uc.mu.Lock()
		uc.panels[kind] = p
		uc.mu.Unlock()

		uc.app.notify(ctx, model.Success(okMsg))
		panel = &p
		return nil
	})
	return panel, err
}

func riskRef(r model.Risk) model.RiskRef {
	return model.RiskRef{
		Name:          r.Name,
		Description:   r.Description,
		InherentScore: r.InherentRiskScore,
		ResidualScore: r.ResidualRiskScore,
		Category:      r.Category,
	}
}

func riskKRIContext(snap *model.Snapshot, r model.Risk) *model.RiskKRIContext {
	controls, _ := snap.LinkedControls(r)

	out := &model.RiskKRIContext{
		Risk:     riskRef(r),
		KRIs:     []model.KRIRef{},
		Controls: []model.ControlRef{},
		KCIs:     []model.KCIRef{},
	}
	for _, k := range snap.LinkedKRIs(r) {
		out.KRIs = append(out.KRIs, model.KRIRef{
			Name:         k.Name,
			CurrentValue: k.CurrentValue,
			Threshold:    k.Threshold,
			Status:       k.Status,
			Trend:        k.Trend,
		})
	}
	for _, c := range controls {
		out.Controls = append(out.Controls, model.ControlRef{
			Name:        c.Name,
			HealthScore: c.HealthScore,
			Status:      c.Status,
		})
	}
	for _, k := range snap.LinkedKCIs(controls) {
		out.KCIs = append(out.KCIs, model.KCIRef{
			Name:         k.Name,
			CurrentValue: k.CurrentValue,
			Target:       k.Target,
			Status:       k.Status,
		})
	}
	return out
}

func controlHealthContext(snap *model.Snapshot, r model.Risk) *model.ControlHealthContext {
	controls, _ := snap.LinkedControls(r)

	out := &model.ControlHealthContext{
		Risk: model.RiskRef{
			Name:          r.Name,
			InherentScore: r.InherentRiskScore,
			ResidualScore: r.ResidualRiskScore,
		},
		Controls:             make([]model.ControlRef, 0, len(controls)),
		AverageControlHealth: model.AverageHealth(controls),
		RiskReduction:        fmt.Sprintf("%.1f", model.RiskReduction(r)),
	}
	for _, c := range controls {
		out.Controls = append(out.Controls, model.ControlRef{
			Name:        c.Name,
			HealthScore: c.HealthScore,
			Status:      c.Status,
			Type:        c.ControlType,
		})
	}
	return out
}

func ccfMappingContext(snap *model.Snapshot, c model.UnifiedControl) *model.CCFMappingContext {
	out := &model.CCFMappingContext{
		Control: model.CCFControlRef{
			Name:           c.Name,
			Description:    c.Description,
			CCFID:          c.CCFID,
			InternalPolicy: c.InternalPolicy,
			Type:           c.ControlType,
			Frequency:      c.Frequency,
		},
		LinkedRisks: []model.LinkedRiskRef{},
	}
	for _, r := range snap.RisksLinkedTo(c.ID) {
		out.LinkedRisks = append(out.LinkedRisks, model.LinkedRiskRef{Name: r.Name, Category: r.Category})
	}

	for _, f := range snap.EnabledFrameworks() {
		out.Frameworks = append(out.Frameworks, f.Name)
	}
	if len(out.Frameworks) == 0 {
		out.Frameworks = append([]string(nil), defaultCCFFrameworks...)
	}
	return out
}
