package store

import (
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/algorave/errorstack/internal/parser"
)

// event kinds emitted by the store
const (
	EventPublished = "error_published"
	EventCleared   = "error_cleared"
)

// Event is a change of the current error.
type Event struct {
	Kind   string         `json:"kind"`
	Record *parser.Record `json:"record,omitempty"`
	At     time.Time      `json:"at"`
}

// Store holds the current error and fans changes out to subscribers.
type Store struct {
	mu      sync.RWMutex
	current *parser.Record
	subs    map[uint64]chan Event
	nextID  atomic.Uint64
	closed  bool
}
