package shortener

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortbox/internal/domain"
	"shortbox/internal/storage"
)

// setupResolver wires a Resolver and Manager over shared in-memory doubles.
func setupResolver(t *testing.T) (*Resolver, *Manager, *storage.MemoryStore, *storage.MemoryLog) {
	t.Helper()

	store := storage.NewMemoryStore()
	actions := storage.NewMemoryLog()
	mgr := NewManager(store, actions, NewRandomGenerator(6), testLogger())
	res := NewResolver(store, mgr, actions, testLogger())

	now := time.UnixMilli(1_700_000_000_000)
	mgr.nowFunc = func() time.Time { return now }
	res.nowFunc = func() time.Time { return now }
	return res, mgr, store, actions
}

func TestResolver_NotFound(t *testing.T) {
	res, _, _, actions := setupResolver(t)

	_, err := res.Resolve("nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	entries, lerr := actions.All()
	require.NoError(t, lerr)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EventRedirectNotFound, entries[0].Type)
	assert.Equal(t, "nope", entries[0].Payload["code"])
}

func TestResolver_Expired(t *testing.T) {
	res, mgr, store, actions := setupResolver(t)

	_, err := mgr.Create([]CreateRequest{{URL: "https://example.com", Code: "stale", Minutes: "1"}})
	require.NoError(t, err)

	// Move the resolver's clock past the validity window.
	res.nowFunc = func() time.Time { return time.UnixMilli(1_700_000_000_000).Add(2 * time.Minute) }

	_, err = res.Resolve("stale")
	require.ErrorIs(t, err, domain.ErrExpired)

	// The record stays stored and its counter is untouched.
	links, lerr := store.Load()
	require.NoError(t, lerr)
	require.Contains(t, links, "stale")
	assert.Zero(t, links["stale"].Clicks)

	entries, lerr := actions.All()
	require.NoError(t, lerr)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EventRedirectExpired, entries[1].Type)
	assert.Equal(t, "stale", entries[1].Payload["code"])
}

func TestResolver_SuccessCountsEveryResolution(t *testing.T) {
	res, mgr, store, actions := setupResolver(t)

	_, err := mgr.Create([]CreateRequest{{URL: "https://example.com/dest", Code: "live"}})
	require.NoError(t, err)

	dest, err := res.Resolve("live")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dest", dest)

	dest, err = res.Resolve("live")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dest", dest)

	links, lerr := store.Load()
	require.NoError(t, lerr)
	assert.EqualValues(t, 2, links["live"].Clicks, "Each resolution counts exactly one click")

	var successes int
	entries, lerr := actions.All()
	require.NoError(t, lerr)
	for _, e := range entries {
		if e.Type == domain.EventRedirectSuccess {
			successes++
			assert.Equal(t, "live", e.Payload["code"])
			assert.Equal(t, "https://example.com/dest", e.Payload["to"])
		}
	}
	assert.Equal(t, 2, successes)
}

func TestResolver_BoundaryNotYetExpired(t *testing.T) {
	res, mgr, _, _ := setupResolver(t)

	_, err := mgr.Create([]CreateRequest{{URL: "https://example.com", Code: "edge", Minutes: "1"}})
	require.NoError(t, err)

	// now == expiresAt is still valid; only now > expiresAt fails.
	res.nowFunc = func() time.Time { return time.UnixMilli(1_700_000_000_000).Add(time.Minute) }

	dest, err := res.Resolve("edge")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", dest)
}
