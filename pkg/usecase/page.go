package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

// page is the shape every page controller shares: the application context, the gateway
// and the in-flight guard
type page struct {
	app     *AppContext
	gateway interfaces.Gateway
	guard   *guard
}

// create runs the create-then-refresh pattern of the entity forms. An invalid draft is never
// sent. A refresh failure after a successful create is reported by RefreshAll and does not
// fail the create.
func (p *page) create(ctx context.Context, key string, validate func() error, call func(ctx context.Context) error, okMsg, failMsg string) error {
	if err := validate(); err != nil {
		p.app.notify(ctx, model.Failure(MsgRequiredFields))
		return goerr.Wrap(err, "invalid draft", goerr.V("key", key))
	}

	return p.guard.do(key, func() error {
		if err := call(ctx); err != nil {
			p.app.fail(ctx, err, failMsg)
			return goerr.Wrap(err, "backend rejected create", goerr.V("key", key))
		}
		p.app.notify(ctx, model.Success(okMsg))

		_ = p.app.RefreshAll(ctx)
		return nil
	})
}

// busy reports whether the operation identified by key is in flight. Pages use it to
// disable the trigger of that operation.
func (p *page) busy(key string) bool {
	return p.guard.busy(key)
}
