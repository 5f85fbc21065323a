package interfaces

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
)

// Analyzer turns an analysis context into free text. Its output is shown as is.
type Analyzer interface {
	Analyze(ctx context.Context, kind types.AnalysisType, analysisContext any) (*model.Analysis, error)
}

// RiskSuggester proposes risks for an industry
type RiskSuggester interface {
	SuggestRisks(ctx context.Context, industry string) ([]model.RiskSuggestion, error)
}
