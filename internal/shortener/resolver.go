package shortener

import (
	"time"

	"github.com/sirupsen/logrus"

	"shortbox/internal/domain"
	"shortbox/internal/storage"
)

// Resolver turns a short code into a destination URL. Each attempt ends in
// exactly one of three outcomes: not found, expired, or success. A success
// registers a click; the two failures only log. Expired records are never
// deleted here, and nothing is cached: resolving the same live code twice
// counts two clicks.
type Resolver struct {
	store   storage.LinkStore
	mgr     *Manager
	actions storage.ActionLog
	log     logrus.FieldLogger
	nowFunc func() time.Time
}

func NewResolver(store storage.LinkStore, mgr *Manager, actions storage.ActionLog, logger logrus.FieldLogger) *Resolver {
	return &Resolver{
		store:   store,
		mgr:     mgr,
		actions: actions,
		log:     logger.WithField("component", "resolver"),
		nowFunc: time.Now,
	}
}

// Resolve returns the destination URL for code, or ErrNotFound / ErrExpired.
func (r *Resolver) Resolve(code string) (string, error) {
	links, err := r.store.Load()
	if err != nil {
		return "", err
	}

	rec, ok := links[code]
	if !ok {
		if err := r.actions.Append(domain.EventRedirectNotFound, map[string]any{"code": code}); err != nil {
			return "", err
		}
		r.log.WithField("code", code).Warn("Resolution failed, code not found")
		return "", domain.ErrNotFound
	}

	if rec.Expired(r.nowFunc()) {
		if err := r.actions.Append(domain.EventRedirectExpired, map[string]any{"code": code}); err != nil {
			return "", err
		}
		r.log.WithField("code", code).Warn("Resolution failed, code expired")
		return "", domain.ErrExpired
	}

	if err := r.mgr.RegisterClick(code); err != nil {
		return "", err
	}
	if err := r.actions.Append(domain.EventRedirectSuccess, map[string]any{
		"code": code,
		"to":   rec.URL,
	}); err != nil {
		return "", err
	}
	r.log.WithFields(logrus.Fields{
		"code": code,
		"to":   rec.URL,
	}).Info("Resolved short code")
	return rec.URL, nil
}
