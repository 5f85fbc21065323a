package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grcboard/pkg/domain/interfaces"
	"github.com/secmon-lab/grcboard/pkg/domain/model"
	"github.com/secmon-lab/grcboard/pkg/domain/types"
	"github.com/secmon-lab/grcboard/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// Store is the session-lifetime cache of every server-backed collection.
//
// The current snapshot is immutable. Every write builds a new snapshot and swaps it in under
// the lock, so readers never observe a partially applied refresh. Only Store methods write.
type Store struct {
	fetcher     interfaces.Fetcher
	collections []types.Collection

	mu   sync.RWMutex
	snap *model.Snapshot

	loading atomic.Int32
	ready   atomic.Bool

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// New creates an empty store that refreshes the given collections through fetcher
func New(fetcher interfaces.Fetcher, collections []types.Collection) *Store {
	return &Store{
		fetcher:     fetcher,
		collections: slices.Clone(collections),
		snap:        &model.Snapshot{},
		subs:        make(map[int]chan Event),
	}
}

// Collections returns the collections refreshed by RefreshAll
func (s *Store) Collections() []types.Collection {
	return slices.Clone(s.collections)
}

// Snapshot returns a copy of the current contents. Mutating it does not affect the store.
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Version is incremented by every commit
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Version
}

// Loading reports whether any load is in flight
func (s *Store) Loading() bool {
	return s.loading.Load() > 0
}

// BeginLoading marks a load as in flight. The returned func ends it and is safe to call more than once.
func (s *Store) BeginLoading() func() {
	s.loading.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { s.loading.Add(-1) })
	}
}

// Ready reports whether the initial load completed
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// MarkReady records that the initial load completed
func (s *Store) MarkReady() {
	if !s.ready.Swap(true) {
		s.publish(Event{Version: s.Version(), Reason: ReasonReady})
	}
}

// RefreshAll fetches every collection in parallel and commits them together.
// If any fetch fails nothing is committed and the previous contents stay.
// Concurrent refreshes are not coordinated: the last one to commit wins.
func (s *Store) RefreshAll(ctx context.Context) error {
	defer s.BeginLoading()()

	next := &model.Snapshot{}
	eg, egCtx := errgroup.WithContext(ctx)
	for _, c := range s.collections {
		eg.Go(func() error {
			// Each goroutine writes a distinct field of next
			return s.fetcher.FetchCollection(egCtx, c, next)
		})
	}
	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to refresh collections")
	}

	version := s.commit(ReasonRefresh, func(cur *model.Snapshot) *model.Snapshot {
		next.FrameworkControls = keepEnabled(cur.FrameworkControls, next.Frameworks)
		return next
	})

	logging.From(ctx).Debug("store refreshed", "version", version)
	return nil
}

// keepEnabled carries loaded framework controls over to a new snapshot for frameworks still enabled
func keepEnabled(loaded map[string][]model.FrameworkControl, frameworks []model.Framework) map[string][]model.FrameworkControl {
	if len(loaded) == 0 {
		return nil
	}
	out := make(map[string][]model.FrameworkControl)
	for _, f := range frameworks {
		if controls, ok := loaded[f.ID]; ok && f.Enabled {
			out[f.ID] = controls
		}
	}
	return out
}

// RefreshFrameworkControls fetches the catalog of every enabled framework in parallel and
// replaces all loaded catalogs at once
func (s *Store) RefreshFrameworkControls(ctx context.Context) error {
	defer s.BeginLoading()()

	enabled := s.Snapshot().EnabledFrameworks()

	var mu sync.Mutex
	loaded := make(map[string][]model.FrameworkControl, len(enabled))

	eg, egCtx := errgroup.WithContext(ctx)
	for _, f := range enabled {
		eg.Go(func() error {
			controls, err := s.fetcher.ListFrameworkControls(egCtx, f.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			loaded[f.ID] = controls
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return goerr.Wrap(err, "failed to load framework controls")
	}

	s.commit(ReasonFrameworkControls, func(cur *model.Snapshot) *model.Snapshot {
		next := *cur
		next.FrameworkControls = loaded
		return &next
	})
	return nil
}

// commit builds the next snapshot from the current one and publishes it
func (s *Store) commit(reason EventReason, build func(cur *model.Snapshot) *model.Snapshot) uint64 {
	s.mu.Lock()
	next := build(s.snap)
	next.Version = s.snap.Version + 1
	next.RefreshedAt = s.snap.RefreshedAt
	if reason == ReasonRefresh {
		next.RefreshedAt = time.Now().UTC()
	}
	s.snap = next
	version := next.Version
	s.mu.Unlock()

	s.publish(Event{Version: version, Reason: reason})
	return version
}
