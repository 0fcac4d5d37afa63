package storage

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"shortbox/internal/domain"
)

// Persisted state lives in two independent keyed blobs: a JSON object
// mapping code -> record, and a JSON array of log entries.
var (
	linksKey = []byte("links")
	logKey   = []byte("log")
)

// BadgerRepository implements LinkStore and ActionLog on an embedded
// BadgerDB. Each blob is read and written whole; there are no partial
// updates and no cross-process coordination.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository opens the database at the given path.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the underlying database.
func (r *BadgerRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	return nil
}

// readBlob fetches a raw value by key. A missing key yields (nil, nil).
func (r *BadgerRepository) readBlob(key []byte) ([]byte, error) {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s blob: %w", key, err)
	}
	return raw, nil
}

// writeBlob replaces the value stored under key.
func (r *BadgerRepository) writeBlob(key, val []byte) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, val))
	})
	if err != nil {
		return fmt.Errorf("failed to write %s blob: %w", key, err)
	}
	return nil
}

// Load reads the full link mapping. A corrupt blob degrades to an empty
// mapping rather than failing the caller.
func (r *BadgerRepository) Load() (map[string]domain.LinkRecord, error) {
	raw, err := r.readBlob(linksKey)
	if err != nil {
		return nil, err
	}
	links := make(map[string]domain.LinkRecord)
	if len(raw) == 0 {
		return links, nil
	}
	if err := json.Unmarshal(raw, &links); err != nil {
		r.log.WithError(err).Warn("Malformed link store blob, starting from empty")
		return make(map[string]domain.LinkRecord), nil
	}
	return links, nil
}

// Save persists the full link mapping, replacing prior contents.
func (r *BadgerRepository) Save(links map[string]domain.LinkRecord) error {
	raw, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to marshal link store: %w", err)
	}
	return r.writeBlob(linksKey, raw)
}

// Append stamps the payload into a fresh entry and appends it to the
// persisted log sequence.
func (r *BadgerRepository) Append(kind domain.EventKind, payload map[string]any) error {
	entries, err := r.All()
	if err != nil {
		return err
	}
	entries = append(entries, newLogEntry(kind, payload))
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal action log: %w", err)
	}
	return r.writeBlob(logKey, raw)
}

// All returns the persisted log in append order. A corrupt blob degrades
// to an empty log.
func (r *BadgerRepository) All() ([]domain.LogEntry, error) {
	raw, err := r.readBlob(logKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []domain.LogEntry{}, nil
	}
	var entries []domain.LogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.log.WithError(err).Warn("Malformed action log blob, starting from empty")
		return []domain.LogEntry{}, nil
	}
	return entries, nil
}

// Clear resets the log to an empty sequence.
func (r *BadgerRepository) Clear() error {
	raw, err := json.Marshal([]domain.LogEntry{})
	if err != nil {
		return fmt.Errorf("failed to marshal action log: %w", err)
	}
	return r.writeBlob(logKey, raw)
}

// Compile-time interface checks.
var (
	_ LinkStore = (*BadgerRepository)(nil)
	_ ActionLog = (*BadgerRepository)(nil)
)

// --- BadgerDB Internal Logger ---

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
