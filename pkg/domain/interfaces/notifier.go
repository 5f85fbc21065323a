package interfaces

import (
	"context"

	"github.com/secmon-lab/grcboard/pkg/domain/model"
)

// Notifier delivers user-visible notifications. Implementations must not block for long and never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
