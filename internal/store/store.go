package store

import (
	"time"

	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/metrics"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// creates an empty store
func New() *Store {
	return &Store{
		subs: make(map[uint64]chan Event),
	}
}

// stores rec as the current error and notifies subscribers
func (s *Store) Publish(rec parser.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &rec
	metrics.Outcomes.WithLabelValues("published", rec.Type).Inc()

	s.broadcast(Event{Kind: EventPublished, Record: &rec, At: time.Now()})
}

// removes the current error and notifies subscribers
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	metrics.Outcomes.WithLabelValues("cleared", "").Inc()

	s.broadcast(Event{Kind: EventCleared, At: time.Now()})
}

// returns the current error, if any
func (s *Store) Current() (parser.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return parser.Record{}, false
	}

	return *s.current, true
}

// Subscribe registers a subscriber with the given channel buffer. Events are
// delivered in order; when the buffer is full the event is dropped for that
// subscriber so that publishing never blocks.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID.Add(1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// returns the number of active subscribers
func (s *Store) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// closes all subscription channels; later subscriptions are closed immediately
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// must be called with lock held
func (s *Store) broadcast(evt Event) {
	for id, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			metrics.DroppedEvents.Inc()
			logger.Warn("dropping error event for slow subscriber",
				"subscriber", id,
				"kind", evt.Kind,
			)
		}
	}
}
