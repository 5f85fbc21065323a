package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
	"github.com/secmon-lab/grcboard/pkg/usecase"
)

var errBackend = errors.New("status 500")

// fakeGateway is an in-memory GRC backend
type fakeGateway struct {
	mu     sync.Mutex
	server *model.Snapshot
	calls  map[string]int
	fail   map[string]error
	stats  *model.DashboardStats
	nextID int
	hold   map[string]*held
}

// held parks calls of one operation until release is closed
type held struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeGateway(server *model.Snapshot) *fakeGateway {
	if server == nil {
		server = &model.Snapshot{}
	}
	return &fakeGateway{
		server: server,
		calls:  make(map[string]int),
		fail:   make(map[string]error),
		hold:   make(map[string]*held),
	}
}

func (g *fakeGateway) enter(op string) error {
	g.mu.Lock()
	g.calls[op]++
	err := g.fail[op]
	h := g.hold[op]
	delete(g.hold, op)
	g.mu.Unlock()

	if h != nil {
		close(h.entered)
		<-h.release
	}
	return err
}

// holdOn parks the next call of op. The returned channel is closed once the call
// is parked; calling release lets it continue.
func (g *fakeGateway) holdOn(op string) (<-chan struct{}, func()) {
	h := &held{entered: make(chan struct{}), release: make(chan struct{})}
	g.mu.Lock()
	g.hold[op] = h
	g.mu.Unlock()
	return h.entered, func() { close(h.release) }
}

func (g *fakeGateway) failOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.fail, op)
		return
	}
	g.fail[op] = err
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) id(prefix string) string {
	g.nextID++
	return fmt.Sprintf("%s-%d", prefix, g.nextID)
}

func (g *fakeGateway) FetchCollection(ctx context.Context, c types.Collection, dst *model.Snapshot) error {
	if err := g.enter("fetch"); err != nil {
		return err
	}
	if err := g.enter("fetch:" + c.String()); err != nil {
		return err
	}

	g.mu.Lock()
	src := g.server.Clone()
	g.mu.Unlock()

	switch c {
	case types.CollectionFrameworks:
		dst.Frameworks = src.Frameworks
	case types.CollectionUnifiedControls:
		dst.UnifiedControls = src.UnifiedControls
	case types.CollectionPolicies:
		dst.Policies = src.Policies
	case types.CollectionControlTests:
		dst.ControlTests = src.ControlTests
	case types.CollectionEvidence:
		dst.Evidence = src.Evidence
	case types.CollectionIssues:
		dst.Issues = src.Issues
	case types.CollectionRisks:
		dst.Risks = src.Risks
	case types.CollectionKRIs:
		dst.KRIs = src.KRIs
	case types.CollectionKCIs:
		dst.KCIs = src.KCIs
	}
	return nil
}

func (g *fakeGateway) ListFrameworkControls(ctx context.Context, frameworkID string) ([]model.FrameworkControl, error) {
	if err := g.enter("framework_controls"); err != nil {
		return nil, err
	}
	return []model.FrameworkControl{{ID: frameworkID + "-A.5.1", FrameworkID: frameworkID, ControlID: "A.5.1"}}, nil
}

func (g *fakeGateway) Seed(ctx context.Context) error {
	return g.enter("seed")
}

func (g *fakeGateway) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	if err := g.enter("stats"); err != nil {
		return nil, err
	}
	if g.stats == nil {
		return nil, goerr.Wrap(interfaces.ErrNotSupported, "no stats")
	}
	return g.stats, nil
}

func (g *fakeGateway) ToggleFramework(ctx context.Context, id string, enabled bool) error {
	if err := g.enter("toggle"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.server.Frameworks {
		if g.server.Frameworks[i].ID == id {
			g.server.Frameworks[i].Enabled = enabled
		}
	}
	return nil
}

func (g *fakeGateway) CreateUnifiedControl(ctx context.Context, d model.UnifiedControlDraft) error {
	if err := g.enter("create:control"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.UnifiedControls = append(g.server.UnifiedControls, model.UnifiedControl{
		ID: g.id("uc"), CCFID: d.CCFID, Name: d.Name, Description: d.Description,
		ControlType: d.ControlType, Frequency: d.Frequency, Owner: d.Owner,
	})
	return nil
}

func (g *fakeGateway) CreatePolicy(ctx context.Context, d model.PolicyDraft) error {
	if err := g.enter("create:policy"); err != nil {
		return err
	}
	body := d.Body()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.Policies = append(g.server.Policies, model.Policy{
		ID: g.id("pol"), PolicyID: body.PolicyID, Name: body.Name, Category: body.Category,
		Owner: body.Owner, Status: body.Status,
	})
	return nil
}

func (g *fakeGateway) CreateControlTest(ctx context.Context, d model.ControlTestDraft) error {
	if err := g.enter("create:test"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.ControlTests = append(g.server.ControlTests, model.ControlTest{
		ID: g.id("test"), UnifiedControlID: d.UnifiedControlID, Tester: d.Tester,
		Status: d.Status, Result: d.Result,
	})
	if d.Result == types.TestResultFail {
		g.server.Issues = append(g.server.Issues, model.Issue{
			ID: g.id("issue"), UnifiedControlID: d.UnifiedControlID, Status: types.IssueStatusOpen,
		})
	}
	return nil
}

func (g *fakeGateway) CreateIssue(ctx context.Context, d model.IssueDraft) error {
	if err := g.enter("create:issue"); err != nil {
		return err
	}
	body := d.Body()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.Issues = append(g.server.Issues, model.Issue{
		ID: g.id("issue"), Title: body.Title, UnifiedControlID: body.UnifiedControlID,
		Severity: body.Severity, Status: body.Status, HasException: body.HasException,
	})
	return nil
}

func (g *fakeGateway) CreateRisk(ctx context.Context, d model.RiskDraft) error {
	if err := g.enter("create:risk"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.Risks = append(g.server.Risks, model.Risk{
		ID: g.id("risk"), Name: d.Name, InherentRiskScore: d.InherentRiskScore, ResidualRiskScore: d.ResidualRiskScore,
	})
	return nil
}

func (g *fakeGateway) CreateKRI(ctx context.Context, d model.KRIDraft) error {
	if err := g.enter("create:kri"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.KRIs = append(g.server.KRIs, model.KRI{ID: g.id("kri"), Name: d.Name, RiskID: d.RiskID, KCIIDs: model.IDList{}})
	return nil
}

func (g *fakeGateway) CreateKCI(ctx context.Context, d model.KCIDraft) error {
	if err := g.enter("create:kci"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.KCIs = append(g.server.KCIs, model.KCI{ID: g.id("kci"), Name: d.Name, KRIID: d.KRIID, UnifiedControlID: d.UnifiedControlID})
	return nil
}

func (g *fakeGateway) UploadEvidence(ctx context.Context, u model.EvidenceUpload) error {
	if err := g.enter("upload"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.server.Evidence = append(g.server.Evidence, model.Evidence{ID: g.id("ev"), UnifiedControlID: u.UnifiedControlID, FileName: u.FileName})
	return nil
}

func (g *fakeGateway) UpdateIssueStatus(ctx context.Context, id string, status types.IssueStatus) error {
	if err := g.enter("issue:status"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.server.Issues {
		if g.server.Issues[i].ID == id {
			g.server.Issues[i].Status = status
		}
	}
	return nil
}

func (g *fakeGateway) GrantException(ctx context.Context, id string, details model.ExceptionDetails) error {
	if err := g.enter("issue:exception"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.server.Issues {
		if g.server.Issues[i].ID == id {
			g.server.Issues[i].HasException = true
			g.server.Issues[i].ExceptionDetails = &details
		}
	}
	return nil
}

func (g *fakeGateway) BaseURL() string {
	return "http://localhost:8000/api"
}

// sampleServer is a small enterprise data set with links between every collection
func sampleServer() *model.Snapshot {
	return &model.Snapshot{
		Frameworks: []model.Framework{
			{ID: "fw-iso", Name: "ISO 27001", Enabled: true, TotalControls: 93},
			{ID: "fw-soc2", Name: "SOC 2", Enabled: false, TotalControls: 64},
		},
		UnifiedControls: []model.UnifiedControl{
			{ID: "uc-1", CCFID: "CCF-AC-01", Name: "Access Review", Description: "Quarterly access review",
				ControlType: types.ControlTypeDetective, Frequency: types.FrequencyQuarterly, HealthScore: 80,
				Status: "Effective", MappedFrameworkControls: model.IDList{"fw-iso-A.5.1", "ghost-fc"}},
			{ID: "uc-2", CCFID: "CCF-EN-01", Name: "Encryption at Rest", HealthScore: 60, Status: "Partial"},
		},
		Policies: []model.Policy{{ID: "pol-1", PolicyID: "POL-001", Name: "Access Policy", Category: "Access Control", Status: "Active"}},
		ControlTests: []model.ControlTest{
			{ID: "t-1", UnifiedControlID: "uc-1", Result: types.TestResultPass, TestDate: "2024-01-10T00:00:00Z"},
			{ID: "t-2", UnifiedControlID: "uc-1", Result: types.TestResultFail, TestDate: "2024-03-01T00:00:00Z"},
		},
		Evidence: []model.Evidence{
			{ID: "ev-1", UnifiedControlID: "uc-1", EvidenceType: "Automated", FileName: "scan.json"},
			{ID: "ev-2", UnifiedControlID: "uc-missing", EvidenceType: "Manual", FileName: "memo.pdf"},
		},
		Issues: []model.Issue{
			{ID: "issue-1", Title: "Stale accounts", UnifiedControlID: "uc-1", Severity: types.SeverityHigh, Status: types.IssueStatusOpen},
			{ID: "issue-2", Title: "Weak ciphers", UnifiedControlID: "uc-2", Severity: types.SeverityCritical, Status: types.IssueStatusClosed},
		},
		Risks: []model.Risk{
			{ID: "risk-1", Name: "Data Breach", Category: "Cyber", InherentRiskScore: 9, ResidualRiskScore: 4.5,
				LinkedControls: model.IDList{"uc-1", "uc-2", "uc-gone"}, KRIs: model.IDList{"kri-1"}},
			{ID: "risk-2", Name: "Vendor Outage", Category: "Operational", InherentRiskScore: 6, ResidualRiskScore: 6},
			{ID: "risk-3", Name: "Insider Threat", Category: "Cyber", InherentRiskScore: 8, ResidualRiskScore: 4.5},
		},
		KRIs: []model.KRI{
			{ID: "kri-1", Name: "Phishing click rate", RiskID: "risk-1", CurrentValue: 45, Threshold: 50, Status: types.KRIStatusWarning, Trend: types.TrendIncreasing},
		},
		KCIs: []model.KCI{
			{ID: "kci-1", Name: "Review completion", KRIID: "kri-1", UnifiedControlID: "uc-1", CurrentValue: 90, Target: 100, Status: types.KCIStatusOnTrack},
		},
	}
}

// newTestUseCases builds use cases on gw with a recording notifier and runs the startup sequence
func newTestUseCases(t *testing.T, gw *fakeGateway, opts ...usecase.Option) (*usecase.UseCases, *notify.Recorder) {
	t.Helper()
	rec := notify.NewRecorder(100)
	uc := usecase.New(gw, append([]usecase.Option{usecase.WithNotifier(rec)}, opts...)...)
	gt.NoError(t, uc.Bootstrap.Initialize(context.Background())).Required()
	return uc, rec
}

// messages returns the recorded notification texts, oldest first
func messages(rec *notify.Recorder) []string {
	list := rec.List()
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Message)
	}
	slices.Reverse(out)
	return out
}

// levels returns the recorded notification levels, oldest first
func levels(rec *notify.Recorder) []types.NotificationLevel {
	list := rec.List()
	out := make([]types.NotificationLevel, 0, len(list))
	for _, n := range list {
		out = append(out, n.Level)
	}
	slices.Reverse(out)
	return out
}
