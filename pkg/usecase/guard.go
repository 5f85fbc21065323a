package usecase

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// guard rejects a second submission of the same operation while the first is in flight
type guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newGuard() *guard {
	return &guard{inflight: make(map[string]struct{})}
}

func (g *guard) do(key string, fn func() error) error {
	g.mu.Lock()
	if _, busy := g.inflight[key]; busy {
		g.mu.Unlock()
		return goerr.Wrap(ErrBusy, "operation already in flight", goerr.V("key", key))
	}
	g.inflight[key] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}()

	return fn()
}

func (g *guard) busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inflight[key]
	return ok
}
