package usecase_test

import (
	"context"
	"go/build"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/service/notify"
	"github.com/secmon-lab/grcboard/pkg/usecase"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("runs once", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		uc, rec := newTestUseCases(t, gw)

		gt.NoError(t, uc.Bootstrap.Initialize(ctx))
		gt.Value(t, gw.count("seed")).Equal(1)
		gt.B(t, uc.App().Ready()).True()
		gt.B(t, uc.App().Loading()).False()
		gt.Value(t, messages(rec)).Equal([]string{usecase.MsgPlatformInitialized})
		gt.Array(t, uc.App().Snapshot().Risks).Length(3)
	})

	t.Run("concurrent callers share the first run", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		uc := usecase.New(gw, usecase.WithNotifier(notify.NewRecorder(10)))

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				gt.NoError(t, uc.Bootstrap.Initialize(ctx))
			}()
		}
		wg.Wait()
		gt.Value(t, gw.count("seed")).Equal(1)
	})

	t.Run("seed failure", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		gw.failOn("seed", errBackend)
		rec := notify.NewRecorder(10)
		uc := usecase.New(gw, usecase.WithNotifier(rec))

		gt.Error(t, uc.Bootstrap.Initialize(ctx)).Is(errBackend)
		gt.Value(t, messages(rec)).Equal([]string{usecase.MsgInitializeFailed})
		gt.Value(t, gw.count("fetch")).Equal(0)
		gt.B(t, uc.App().Ready()).False()
		gt.B(t, uc.App().Loading()).False()

		// No retry on later calls
		gt.Error(t, uc.Bootstrap.Initialize(ctx)).Is(errBackend)
		gt.Value(t, gw.count("seed")).Equal(1)
	})

	t.Run("initial fetch failure", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		gw.failOn("fetch:issues", errBackend)
		rec := notify.NewRecorder(10)
		uc := usecase.New(gw, usecase.WithNotifier(rec))

		gt.Error(t, uc.Bootstrap.Initialize(ctx)).Is(errBackend)
		gt.Value(t, messages(rec)).Equal([]string{usecase.MsgPlatformInitialized, usecase.MsgFetchFailed})
		gt.B(t, uc.App().Ready()).False()
		gt.Array(t, uc.App().Snapshot().Risks).Length(0)
	})
}

func TestNew_Variant(t *testing.T) {
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw, usecase.WithVariant(types.VariantIntelligence))

	gt.Value(t, uc.Variant()).Equal(types.VariantIntelligence)
	snap := uc.App().Snapshot()
	gt.Array(t, snap.Frameworks).Length(0)
	gt.Array(t, snap.Policies).Length(0)
	gt.Array(t, snap.Risks).Length(3)
	gt.Value(t, uc.App().APIBaseURL()).Equal("http://localhost:8000/api")
}

func TestRefreshAll_FailureNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)
	before := uc.App().Snapshot()

	gw.mu.Lock()
	gw.server.Risks = nil
	gw.mu.Unlock()
	gw.failOn("fetch:kcis", errBackend)

	gt.Error(t, uc.App().RefreshAll(ctx)).Is(errBackend)

	gt.Value(t, messages(rec)).Equal([]string{usecase.MsgPlatformInitialized, usecase.MsgFetchFailed})
	gt.Value(t, levels(rec)[1]).Equal(types.NotificationError)
	gt.B(t, uc.App().Loading()).False()
	gt.Value(t, uc.App().Snapshot()).Equal(before)
}

func TestSubscribe_SeesRefresh(t *testing.T) {
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw)

	events, unsubscribe := uc.App().Subscribe()
	defer unsubscribe()

	gt.NoError(t, uc.App().RefreshAll(context.Background())).Required()
	ev := <-events
	gt.Value(t, ev.Version).Equal(uc.App().Version())
}

func TestGuard(t *testing.T) {
	g := usecase.NewGuard()

	err := g.Do("create:policy", func() error {
		gt.B(t, g.Busy("create:policy")).True()
		gt.Error(t, g.Do("create:policy", func() error { return nil })).Is(usecase.ErrBusy)
		return g.Do("create:risk", func() error { return nil })
	})
	gt.NoError(t, err)
	gt.B(t, g.Busy("create:policy")).False()
}

func TestPolicy_CreateThroughForm(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)
	fetches := gw.count("fetch")

	uc.Policy.Form.Open()
	uc.Policy.Form.Edit(model.PolicyDraft{
		PolicyID: "POL-SEC-100",
		Name:     "Secrets Handling",
		Category: "Security",
		Owner:    "CISO",
	})
	gt.NoError(t, uc.Policy.SubmitForm(ctx)).Required()

	gt.B(t, uc.Policy.Form.State().Open).False()
	gt.Value(t, uc.Policy.Form.State().Draft).Equal(model.PolicyDraft{})
	gt.B(t, gw.count("fetch") > fetches).True()

	var found *model.Policy
	for _, p := range uc.App().Snapshot().Policies {
		if p.PolicyID == "POL-SEC-100" {
			found = &p
		}
	}
	gt.Value(t, found).NotNil()
	gt.Value(t, found.Status).Equal(model.PolicyStatusActive)
	gt.Value(t, messages(rec)[1]).Equal(usecase.MsgPolicyCreated)

	view := uc.Policy.View()
	gt.Value(t, view.Total).Equal(2)
	gt.Value(t, view.Active).Equal(2)
}

func TestForm_InvalidDraftIsKept(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)

	draft := model.UnifiedControlDraft{Name: "Backup", Owner: "IT"}
	uc.Control.Form.Open()
	uc.Control.Form.Edit(draft)

	gt.Value(t, uc.Control.SubmitForm(ctx)).NotNil()
	gt.Value(t, gw.count("create:control")).Equal(0)
	gt.B(t, uc.Control.Form.State().Open).True()
	gt.Value(t, uc.Control.Form.State().Draft).Equal(draft)
	gt.Value(t, messages(rec)[1]).Equal(usecase.MsgRequiredFields)
}

func TestForm_PostWhileSubmitting(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw)

	first := model.PolicyDraft{PolicyID: "POL-SEC-100", Name: "Secrets Handling", Category: "Security", Owner: "CISO"}
	second := model.PolicyDraft{PolicyID: "POL-SEC-101", Name: "Key Rotation", Category: "Security", Owner: "CISO"}

	entered, release := gw.holdOn("create:policy")
	done := make(chan error, 1)
	go func() {
		done <- uc.Policy.Form.Post(ctx, first, uc.Policy.CreatePolicy)
	}()
	<-entered

	state := uc.Policy.Form.State()
	gt.B(t, state.Open).True()
	gt.B(t, state.Submitting).True()
	gt.Value(t, state.Draft).Equal(first)

	gt.Error(t, uc.Policy.Form.Post(ctx, second, uc.Policy.CreatePolicy)).Is(usecase.ErrBusy)
	gt.Error(t, uc.Policy.SubmitForm(ctx)).Is(usecase.ErrBusy)
	gt.Value(t, uc.Policy.Form.State().Draft).Equal(first)

	release()
	gt.NoError(t, <-done).Required()

	state = uc.Policy.Form.State()
	gt.B(t, state.Open).False()
	gt.B(t, state.Submitting).False()
	gt.Value(t, state.Draft).Equal(model.PolicyDraft{})
	gt.Value(t, gw.count("create:policy")).Equal(1)
}

func TestCreate_BackendFailure(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)
	fetches := gw.count("fetch")
	gw.failOn("create:kci", errBackend)

	err := uc.KCI.CreateKCI(ctx, model.KCIDraft{
		Name: "Patch latency", KRIID: "kri-1", UnifiedControlID: "uc-1", Status: types.KCIStatusOnTrack,
	})
	gt.Error(t, err).Is(errBackend)
	gt.Value(t, messages(rec)[1]).Equal(usecase.MsgKCICreateFailed)
	gt.Value(t, gw.count("fetch")).Equal(fetches)
}

func TestCreate_RefreshFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)
	gw.failOn("fetch:kris", errBackend)

	err := uc.KRI.CreateKRI(ctx, model.KRIDraft{
		Name: "Failed logins", Description: "per day", RiskID: "risk-1", Unit: "count",
		Status: types.KRIStatusNormal, Trend: types.TrendStable,
	})
	gt.NoError(t, err)
	gt.Value(t, messages(rec)).Equal([]string{
		usecase.MsgPlatformInitialized,
		usecase.MsgKRICreated,
		usecase.MsgFetchFailed,
	})
}

func TestFramework_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("patches after backend accepts", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		uc, rec := newTestUseCases(t, gw)
		fetches := gw.count("fetch")

		gt.NoError(t, uc.Framework.Toggle(ctx, "fw-soc2", true)).Required()

		f, _ := uc.App().Snapshot().FrameworkByID("fw-soc2")
		gt.B(t, f.Enabled).True()
		gt.Value(t, gw.count("fetch")).Equal(fetches)
		gt.Value(t, messages(rec)[1]).Equal(usecase.MsgFrameworkEnabled)

		summary := uc.Framework.Summary()
		gt.Value(t, summary.Enabled).Equal(2)
		gt.Value(t, summary.TotalControls).Equal(157)
	})

	t.Run("failure leaves store unchanged", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		uc, rec := newTestUseCases(t, gw)
		version := uc.App().Version()
		gw.failOn("toggle", errBackend)

		gt.Error(t, uc.Framework.Toggle(ctx, "fw-soc2", true)).Is(errBackend)

		f, _ := uc.App().Snapshot().FrameworkByID("fw-soc2")
		gt.B(t, f.Enabled).False()
		gt.Value(t, uc.App().Version()).Equal(version)
		gt.Value(t, messages(rec)[1]).Equal(usecase.MsgFrameworkUpdateFailed)
	})
}

func TestControl_MappingView(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw)

	view := uc.Control.MappingView()
	gt.Array(t, view.Mappings).Length(2).Required()
	gt.Value(t, view.Mappings[0].Unresolved).Equal([]string{"fw-iso-A.5.1", "ghost-fc"})
	gt.Array(t, view.Mappings[0].LinkedRisks).Length(1)

	gt.NoError(t, uc.Framework.LoadFrameworkControls(ctx)).Required()
	gt.Value(t, gw.count("framework_controls")).Equal(1)

	view = uc.Control.MappingView()
	gt.Array(t, view.Mappings[0].FrameworkControls).Length(1)
	gt.Value(t, view.Mappings[0].Unresolved).Equal([]string{"ghost-fc"})
}

func TestTesting_SubmitFailedTest(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)

	err := uc.Testing.SubmitTest(ctx, model.ControlTestDraft{
		UnifiedControlID: "uc-2",
		Tester:           "auditor",
		Status:           types.TestStatusCompleted,
		Result:           types.TestResultFail,
	})
	gt.NoError(t, err).Required()

	gt.Value(t, messages(rec)).Equal([]string{
		usecase.MsgPlatformInitialized,
		usecase.MsgTestFailed,
		usecase.MsgIssueAutoCreated,
	})
	gt.Value(t, levels(rec)[2]).Equal(types.NotificationInfo)

	// The issue opened by the backend arrives with the refresh
	gt.Array(t, uc.App().Snapshot().OpenIssues()).Length(2)

	stats := uc.Testing.Stats()
	gt.Value(t, stats.Total).Equal(3)
	gt.Value(t, stats.Failed).Equal(2)
}

func TestTesting_TestsForNewestFirst(t *testing.T) {
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw)

	tests := uc.Testing.TestsFor("uc-1")
	gt.Array(t, tests).Length(2).Required()
	gt.Value(t, tests[0].ID).Equal("t-2")
	gt.Value(t, tests[1].ID).Equal("t-1")
}

func TestEvidence(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway(sampleServer())
	uc, rec := newTestUseCases(t, gw)

	gt.Value(t, uc.Evidence.ControlName("uc-1")).Equal("Access Review")
	gt.Value(t, uc.Evidence.ControlName("uc-missing")).Equal("Unknown Control")

	err := uc.Evidence.Upload(ctx, model.EvidenceUpload{UnifiedControlID: "uc-1"})
	gt.Error(t, err).Is(model.ErrNoFile)
	gt.Value(t, messages(rec)[1]).Equal(usecase.MsgSelectFile)
	gt.Value(t, gw.count("upload")).Equal(0)

	err = uc.Evidence.Upload(ctx, model.EvidenceUpload{
		UnifiedControlID: "uc-1",
		FileName:         "report.pdf",
		Content:          []byte("%PDF"),
	})
	gt.NoError(t, err).Required()
	gt.Value(t, messages(rec)[2]).Equal(usecase.MsgEvidenceUploaded)
	gt.Value(t, uc.Evidence.Stats().Total).Equal(3)

	view := uc.Evidence.View()
	gt.Value(t, view.Evidence[1].ControlName).Equal(usecase.MsgUnknownControl)
}

func TestIndicatorBoards(t *testing.T) {
	gw := newFakeGateway(sampleServer())
	uc, _ := newTestUseCases(t, gw)

	kris := uc.KRI.Board()
	gt.Array(t, kris.Rows).Length(1).Required()
	gt.Value(t, kris.Rows[0].Utilization).Equal(90.0)
	gt.Value(t, kris.Rows[0].RiskName).Equal("Data Breach")
	gt.Value(t, kris.Counts[types.KRIStatusWarning]).Equal(1)

	kcis := uc.KCI.Board()
	gt.Array(t, kcis.Rows).Length(1).Required()
	gt.Value(t, kcis.Rows[0].Performance).Equal(90.0)
	gt.Value(t, kcis.Rows[0].ControlName).Equal("Access Review")
	gt.Value(t, kcis.Rows[0].KRIName).Equal("Phishing click rate")
}

func TestDashboard_Overview(t *testing.T) {
	ctx := context.Background()

	t.Run("local stats without endpoint", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		uc, rec := newTestUseCases(t, gw)

		o := uc.Dashboard.Overview(ctx)
		gt.Value(t, o.StatsSource).Equal(usecase.StatsSourceLocal)
		gt.Value(t, o.Stats.TotalRisks).Equal(3)
		gt.Array(t, o.EnabledFrameworks).Length(1)
		gt.Array(t, o.OpenIssues).Length(1)
		gt.Value(t, o.IssuesBySeverity[types.SeverityHigh]).Equal(1)
		gt.Value(t, o.TopRisks[0].ID).Equal("risk-2")
		gt.Value(t, len(messages(rec))).Equal(1)
	})

	t.Run("backend stats", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		gw.stats = &model.DashboardStats{TotalRisks: 42}
		uc, _ := newTestUseCases(t, gw)

		o := uc.Dashboard.Overview(ctx)
		gt.Value(t, o.StatsSource).Equal(usecase.StatsSourceBackend)
		gt.Value(t, o.Stats.TotalRisks).Equal(42)
	})

	t.Run("failing endpoint falls back silently", func(t *testing.T) {
		gw := newFakeGateway(sampleServer())
		gw.failOn("stats", errBackend)
		uc, rec := newTestUseCases(t, gw)

		o := uc.Dashboard.Overview(ctx)
		gt.Value(t, o.StatsSource).Equal(usecase.StatsSourceLocal)
		gt.Value(t, len(messages(rec))).Equal(1)
	})
}

func TestUseCasesDoNotImportBackendClient(t *testing.T) {
	pkg, err := build.ImportDir(".", 0)
	gt.NoError(t, err).Required()
	gt.A(t, pkg.Imports).Longer(0)

	for _, imp := range pkg.Imports {
		if strings.HasSuffix(imp, "/pkg/service/grcapi") {
			t.Errorf("usecase imports %s; gateway errors belong to the domain layer", imp)
		}
	}
}
