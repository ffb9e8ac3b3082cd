package history

import (
	"time"

	"codeberg.org/algorave/errorstack/internal/parser"
	"github.com/google/uuid"
)

// Entry is one stored terminal outcome.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Type      string         `json:"type,omitempty"`
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message,omitempty"`
	Record    *parser.Record `json:"record,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)
