package storage

import (
	"maps"

	"shortbox/internal/domain"
)

// MemoryStore is an in-memory LinkStore, used in tests and for ephemeral
// runs where nothing should touch disk.
type MemoryStore struct {
	links map[string]domain.LinkRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]domain.LinkRecord)}
}

func (s *MemoryStore) Load() (map[string]domain.LinkRecord, error) {
	out := make(map[string]domain.LinkRecord, len(s.links))
	maps.Copy(out, s.links)
	return out, nil
}

func (s *MemoryStore) Save(links map[string]domain.LinkRecord) error {
	out := make(map[string]domain.LinkRecord, len(links))
	maps.Copy(out, links)
	s.links = out
	return nil
}

// MemoryLog is an in-memory ActionLog counterpart of MemoryStore.
type MemoryLog struct {
	entries []domain.LogEntry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: []domain.LogEntry{}}
}

func (l *MemoryLog) Append(kind domain.EventKind, payload map[string]any) error {
	l.entries = append(l.entries, newLogEntry(kind, payload))
	return nil
}

func (l *MemoryLog) All() ([]domain.LogEntry, error) {
	out := make([]domain.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *MemoryLog) Clear() error {
	l.entries = []domain.LogEntry{}
	return nil
}

var (
	_ LinkStore = (*MemoryStore)(nil)
	_ ActionLog = (*MemoryLog)(nil)
)
