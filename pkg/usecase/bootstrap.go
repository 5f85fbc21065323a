package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/repository/memory"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
)

// Bootstrap seeds the backend and performs the first bulk fetch, once per process
type Bootstrap struct {
	app     *AppContext
	store   *memory.Store
	gateway interfaces.Gateway

	once sync.Once
	err  error
}

func newBootstrap(app *AppContext, store *memory.Store, gateway interfaces.Gateway) *Bootstrap {
	return &Bootstrap{app: app, store: store, gateway: gateway}
}

// Initialize runs the startup sequence exactly once. Later and concurrent calls wait for
// the first run and return its result. There is no retry: a failed start stays failed.
func (b *Bootstrap) Initialize(ctx context.Context) error {
	b.once.Do(func() {
		b.err = b.initialize(ctx)
	})
	return b.err
}

func (b *Bootstrap) initialize(ctx context.Context) error {
	done := b.store.BeginLoading()
	defer done()

	if err := b.gateway.Seed(ctx); err != nil {
		b.app.fail(ctx, err, MsgInitializeFailed)
		return goerr.Wrap(err, "failed to seed backend")
	}
	b.app.notify(ctx, model.Success(MsgPlatformInitialized))

	// RefreshAll raises its own notification
	if err := b.app.RefreshAll(ctx); err != nil {
		return goerr.Wrap(err, "failed to load initial data")
	}

	b.store.MarkReady()
	logging.From(ctx).Info("platform initialized", "version", b.store.Version())
	return nil
}
