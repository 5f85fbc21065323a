package memory

// EventReason tells subscribers what kind of write produced a new snapshot
type EventReason string

const (
	ReasonRefresh           EventReason = "refresh"
	ReasonFrameworkControls EventReason = "framework_controls"
	ReasonSet               EventReason = "set"
	ReasonPatch             EventReason = "patch"
	ReasonReady             EventReason = "ready"
)

// Event announces a new store version
type Event struct {
	Version uint64      `json:"version"`
	Reason  EventReason `json:"reason"`
}

// Subscribe returns a channel receiving an Event after every commit, and a func that
// unsubscribes and closes the channel. Delivery never blocks a commit: a subscriber that
// falls behind only sees the latest event.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 1)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	return ch, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
			continue
		default:
		}

		// Drop the stale event in favour of the newer one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
