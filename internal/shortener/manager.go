package shortener

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shortbox/internal/domain"
	"shortbox/internal/storage"
)

const (
	// DefaultMaxBatch is how many creation requests a single submission
	// may carry.
	DefaultMaxBatch = 5

	// DefaultValidityMinutes applies when a request leaves validity blank.
	DefaultValidityMinutes = 30

	// generateRetries bounds how often a colliding generated code is
	// replaced before giving up.
	generateRetries = 10
)

var codeRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidCode reports whether s has the shape of a short code.
func ValidCode(s string) bool { return codeRe.MatchString(s) }

// CreateRequest is one row of a creation batch. All fields arrive as raw
// user input; Code and Minutes may be blank.
type CreateRequest struct {
	URL     string
	Code    string
	Minutes string
}

func (r CreateRequest) empty() bool {
	return strings.TrimSpace(r.URL) == ""
}

// Manager owns the link record lifecycle: batch creation, deletion and
// click accounting. Every mutation writes the full store through and then
// appends an action log entry, in that order.
type Manager struct {
	store    storage.LinkStore
	actions  storage.ActionLog
	gen      CodeGenerator
	log      logrus.FieldLogger
	nowFunc  func() time.Time
	maxBatch int
}

// NewManager wires a lifecycle manager over the given store and log.
func NewManager(store storage.LinkStore, actions storage.ActionLog, gen CodeGenerator, logger logrus.FieldLogger) *Manager {
	return &Manager{
		store:    store,
		actions:  actions,
		gen:      gen,
		log:      logger.WithField("component", "lifecycle"),
		nowFunc:  time.Now,
		maxBatch: DefaultMaxBatch,
	}
}

// Create validates and stores a batch of creation requests in order.
// The batch is all-or-nothing: any validation failure aborts before the
// store or log is touched. Returns the number of records created.
func (m *Manager) Create(reqs []CreateRequest) (int, error) {
	if len(reqs) > m.maxBatch {
		return 0, fmt.Errorf("batch larger than %d entries", m.maxBatch)
	}

	links, err := m.store.Load()
	if err != nil {
		return 0, err
	}

	var staged []domain.LinkRecord
	taken := func(code string) bool {
		if _, ok := links[code]; ok {
			return true
		}
		for _, rec := range staged {
			if rec.Code == code {
				return true
			}
		}
		return false
	}

	for _, req := range reqs {
		if req.empty() {
			continue
		}

		rawURL := strings.TrimSpace(req.URL)
		if !validAbsoluteURL(rawURL) {
			return 0, fmt.Errorf("%q: %w", rawURL, domain.ErrInvalidURL)
		}

		code := strings.TrimSpace(req.Code)
		if code != "" {
			if !codeRe.MatchString(code) {
				return 0, fmt.Errorf("%q: %w", code, domain.ErrInvalidCode)
			}
			// Explicit user intent is never silently altered.
			if taken(code) {
				return 0, fmt.Errorf("%q: %w", code, domain.ErrDuplicateCode)
			}
		} else {
			code = m.gen.NewCode()
			for i := 0; taken(code); i++ {
				if i == generateRetries {
					return 0, domain.ErrCodeSpaceExhausted
				}
				code = m.gen.NewCode()
			}
		}

		minutes, err := parseValidityMinutes(req.Minutes)
		if err != nil {
			return 0, err
		}

		createdAt := m.nowFunc().UnixMilli()
		staged = append(staged, domain.LinkRecord{
			Code:      code,
			URL:       rawURL,
			CreatedAt: createdAt,
			ExpiresAt: createdAt + int64(minutes)*60_000,
			Clicks:    0,
		})
	}

	if len(staged) == 0 {
		return 0, domain.ErrNothingToCreate
	}

	for _, rec := range staged {
		links[rec.Code] = rec
		if err := m.store.Save(links); err != nil {
			return 0, err
		}
		if err := m.actions.Append(domain.EventLinkCreated, map[string]any{
			"code":      rec.Code,
			"url":       rec.URL,
			"expiresAt": rec.ExpiresAt,
		}); err != nil {
			return 0, err
		}
		m.log.WithFields(logrus.Fields{
			"code": rec.Code,
			"url":  rec.URL,
		}).Info("Link created")
	}

	return len(staged), nil
}

// Delete removes the record for code if present. Deleting an absent code
// is a no-op, not an error; the deletion event is logged either way.
func (m *Manager) Delete(code string) error {
	links, err := m.store.Load()
	if err != nil {
		return err
	}
	delete(links, code)
	if err := m.store.Save(links); err != nil {
		return err
	}
	if err := m.actions.Append(domain.EventLinkDeleted, map[string]any{"code": code}); err != nil {
		return err
	}
	m.log.WithField("code", code).Info("Link deleted")
	return nil
}

// RegisterClick increments the click counter for code. Absent codes are a
// silent no-op; the resolver is expected to have checked existence already.
func (m *Manager) RegisterClick(code string) error {
	links, err := m.store.Load()
	if err != nil {
		return err
	}
	rec, ok := links[code]
	if !ok {
		return nil
	}
	rec.Clicks++
	links[code] = rec
	if err := m.store.Save(links); err != nil {
		return err
	}
	return m.actions.Append(domain.EventLinkClick, map[string]any{"code": code})
}

// List returns all records ordered by creation time, newest first.
func (m *Manager) List() ([]domain.LinkRecord, error) {
	links, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.LinkRecord, 0, len(links))
	for _, rec := range links {
		out = append(out, rec)
	}
	sortByCreatedDesc(out)
	return out, nil
}

// Get returns the record for code whether or not it is expired.
func (m *Manager) Get(code string) (domain.LinkRecord, error) {
	links, err := m.store.Load()
	if err != nil {
		return domain.LinkRecord{}, err
	}
	rec, ok := links[code]
	if !ok {
		return domain.LinkRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// ---- helpers ----

func sortByCreatedDesc(recs []domain.LinkRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt != recs[j].CreatedAt {
			return recs[i].CreatedAt > recs[j].CreatedAt
		}
		return recs[i].Code < recs[j].Code
	})
}

func validAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func parseValidityMinutes(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultValidityMinutes, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%q: %w", raw, domain.ErrInvalidValidity)
	}
	return minutes, nil
}
