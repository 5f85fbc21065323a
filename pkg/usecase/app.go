package usecase

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/repository/memory"
	"github.com/secmon-lab/grcboard/pkg/utils/errutil"
)

// Mutators are the optimistic local write paths into the store. A later RefreshAll
// reconciles whatever they wrote with the server.
type Mutators interface {
	SetFrameworks(list []model.Framework)
	SetUnifiedControls(list []model.UnifiedControl)
	SetPolicies(list []model.Policy)
	SetControlTests(list []model.ControlTest)
	SetEvidence(list []model.Evidence)
	SetIssues(list []model.Issue)
	SetRisks(list []model.Risk)
	SetKRIs(list []model.KRI)
	SetKCIs(list []model.KCI)
	PatchFramework(id string, fn func(*model.Framework)) bool
	PatchIssue(id string, fn func(*model.Issue)) bool
}

// AppContext is the one application context shared by every page controller and the view server
type AppContext struct {
	store    *memory.Store
	baseURL  string
	notifier interfaces.Notifier
}

func newAppContext(store *memory.Store, baseURL string, notifier interfaces.Notifier) *AppContext {
	return &AppContext{
		store:    store,
		baseURL:  baseURL,
		notifier: notifier,
	}
}

// Snapshot returns a copy of every collection
func (a *AppContext) Snapshot() *model.Snapshot {
	return a.store.Snapshot()
}

func (a *AppContext) Version() uint64 {
	return a.store.Version()
}

func (a *AppContext) Loading() bool {
	return a.store.Loading()
}

func (a *AppContext) Ready() bool {
	return a.store.Ready()
}

func (a *AppContext) APIBaseURL() string {
	return a.baseURL
}

func (a *AppContext) Mutators() Mutators {
	return a.store
}

// Subscribe delivers an event after each store commit until the returned func is called
func (a *AppContext) Subscribe() (<-chan memory.Event, func()) {
	return a.store.Subscribe()
}

// RefreshAll re-synchronises every collection with the backend. A failure leaves the
// prior contents in place and raises exactly one notification.
func (a *AppContext) RefreshAll(ctx context.Context) error {
	if err := a.store.RefreshAll(ctx); err != nil {
		a.fail(ctx, err, MsgFetchFailed)
		return err
	}
	return nil
}

func (a *AppContext) notify(ctx context.Context, n model.Notification) {
	a.notifier.Notify(ctx, n)
}

// fail logs err and shows the generic message msg
func (a *AppContext) fail(ctx context.Context, err error, msg string) {
	_ = errutil.Handle(ctx, err, msg)
	a.notifier.Notify(ctx, model.Failure(msg))
}
