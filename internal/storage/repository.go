package storage

import (
	"time"

	"github.com/google/uuid"

	"shortbox/internal/domain"
)

// LinkStore defines the persistence contract for link records.
// The whole mapping is the unit of durability: Load reads everything,
// Save replaces everything (last-writer-wins, no merge). This allows
// swapping the Badger implementation for an in-memory one in tests.
type LinkStore interface {
	// Load reads the entire persisted mapping. A missing or malformed
	// blob yields an empty mapping, never an error the caller must
	// distinguish from "no links yet".
	Load() (map[string]domain.LinkRecord, error)

	// Save persists the full mapping, replacing prior contents.
	Save(links map[string]domain.LinkRecord) error
}

// ActionLog defines the persistence contract for the append-only event log.
type ActionLog interface {
	// Append creates an entry with a fresh id and current timestamp and
	// adds it to the end of the persisted sequence.
	Append(kind domain.EventKind, payload map[string]any) error

	// All returns the full sequence in append order.
	All() ([]domain.LogEntry, error)

	// Clear resets the log to an empty sequence.
	Clear() error
}

// newLogEntry stamps a payload into a LogEntry ready for appending.
func newLogEntry(kind domain.EventKind, payload map[string]any) domain.LogEntry {
	return domain.LogEntry{
		ID:      uuid.NewString(),
		TS:      time.Now().Format(time.RFC3339),
		Type:    kind,
		Payload: payload,
	}
}
