package usecase

import (
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/repository/memory"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
)

type UseCases struct {
	app       *AppContext
	gateway   interfaces.Gateway
	notifier  interfaces.Notifier
	analyzer  interfaces.Analyzer
	suggester interfaces.RiskSuggester
	variant   types.Variant
	industry  string

	Bootstrap *Bootstrap
	Dashboard *DashboardUseCase
	Framework *FrameworkUseCase
	Control   *ControlUseCase
	Policy    *PolicyUseCase
	Testing   *TestingUseCase
	Evidence  *EvidenceUseCase
	Issue     *IssueUseCase
	Risk      *RiskUseCase
	KRI       *KRIUseCase
	KCI       *KCIUseCase
	Analysis  *AnalysisUseCase
}

type Option func(*UseCases)

// WithNotifier sets where user-visible notifications go. Without it they are only logged.
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithAnalyzer overrides the analysis service. By default the gateway is used when it can analyze.
func WithAnalyzer(a interfaces.Analyzer) Option {
	return func(uc *UseCases) {
		uc.analyzer = a
	}
}

// WithRiskSuggester overrides the risk suggestion service
func WithRiskSuggester(s interfaces.RiskSuggester) Option {
	return func(uc *UseCases) {
		uc.suggester = s
	}
}

// WithIndustry sets the industry used for risk suggestions when a request names none
func WithIndustry(industry string) Option {
	return func(uc *UseCases) {
		uc.industry = industry
	}
}

// WithVariant selects the collections refreshed by RefreshAll
func WithVariant(v types.Variant) Option {
	return func(uc *UseCases) {
		uc.variant = v
	}
}

func New(gateway interfaces.Gateway, opts ...Option) *UseCases {
	uc := &UseCases{
		gateway:  gateway,
		notifier: notify.Logger{},
	}
	if a, ok := gateway.(interfaces.Analyzer); ok {
		uc.analyzer = a
	}
	if s, ok := gateway.(interfaces.RiskSuggester); ok {
		uc.suggester = s
	}
	if v, ok := gateway.(interface{ Variant() types.Variant }); ok {
		uc.variant = v.Variant()
	}

	for _, opt := range opts {
		opt(uc)
	}
	if uc.variant == "" {
		uc.variant = types.VariantEnterprise
	}

	store := memory.New(gateway, uc.variant.Collections())
	uc.app = newAppContext(store, gateway.BaseURL(), uc.notifier)

	p := page{app: uc.app, gateway: gateway, guard: newGuard()}

	uc.Bootstrap = newBootstrap(uc.app, store, gateway)
	uc.Dashboard = &DashboardUseCase{page: p}
	uc.Framework = &FrameworkUseCase{page: p}
	uc.Control = &ControlUseCase{page: p}
	uc.Policy = &PolicyUseCase{page: p}
	uc.Testing = &TestingUseCase{page: p}
	uc.Evidence = &EvidenceUseCase{page: p}
	uc.Issue = &IssueUseCase{page: p}
	uc.Risk = &RiskUseCase{page: p, suggester: uc.suggester, industry: uc.industry}
	uc.KRI = &KRIUseCase{page: p}
	uc.KCI = &KCIUseCase{page: p}
	uc.Analysis = &AnalysisUseCase{
		page:     p,
		analyzer: uc.analyzer,
		panels:   make(map[types.AnalysisType]model.AnalysisPanel),
	}

	return uc
}

// App returns the application context shared by every page controller
func (uc *UseCases) App() *AppContext {
	return uc.app
}

// Variant returns the backend flavour the collections were chosen for
func (uc *UseCases) Variant() types.Variant {
	return uc.variant
}
