package cli

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortbox/internal/shortener"
	"shortbox/internal/storage"
)

// setupHandler wires a Handler over in-memory state with the browser
// launcher stubbed out.
func setupHandler(t *testing.T) (*Handler, *bytes.Buffer, *[]string) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)

	store := storage.NewMemoryStore()
	actions := storage.NewMemoryLog()
	mgr := shortener.NewManager(store, actions, shortener.NewRandomGenerator(6), log)
	res := shortener.NewResolver(store, mgr, actions, log)

	out := &bytes.Buffer{}
	h := NewHandler(mgr, res, actions, nil, log, out)

	var opened []string
	h.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	return h, out, &opened
}

func TestHandler_ShortenAndOpen(t *testing.T) {
	h, out, opened := setupHandler(t)
	ctx := context.Background()

	code := h.Run(ctx, []string{"shorten", "https://example.com/dest,go-here,60"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "created 1 link(s)")

	out.Reset()
	code = h.Run(ctx, []string{"open", "go-here"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "https://example.com/dest")
	require.Len(t, *opened, 1)
	assert.Equal(t, "https://example.com/dest", (*opened)[0])
}

func TestHandler_BareCodeRoutesToOpen(t *testing.T) {
	h, out, opened := setupHandler(t)
	ctx := context.Background()

	code := h.Run(ctx, []string{"shorten", "https://example.com,jump"})
	require.Equal(t, 0, code)

	// A lone code-shaped argument behaves like "open".
	out.Reset()
	code = h.Run(ctx, []string{"jump"})
	assert.Equal(t, 0, code)
	require.Len(t, *opened, 1)
}

func TestHandler_OpenFailures(t *testing.T) {
	h, out, opened := setupHandler(t)
	ctx := context.Background()

	code := h.Run(ctx, []string{"open", "ghost"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "not found")
	assert.Empty(t, *opened, "A failed resolution must not navigate")
}

func TestHandler_UnknownInputShowsUsage(t *testing.T) {
	h, out, _ := setupHandler(t)
	ctx := context.Background()

	code := h.Run(ctx, []string{"no", "such", "command"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "usage:")

	out.Reset()
	code = h.Run(ctx, []string{"not/a/code"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "usage:")
}

func TestHandler_ShortenValidationReported(t *testing.T) {
	h, out, _ := setupHandler(t)
	ctx := context.Background()

	code := h.Run(ctx, []string{"shorten", "https://example.com,bad code"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "error:")

	out.Reset()
	code = h.Run(ctx, []string{"shorten", "a,b,c", "d", "e", "f", "g", "h"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "at most 5")
}

func TestHandler_DeleteAndList(t *testing.T) {
	h, out, _ := setupHandler(t)
	ctx := context.Background()

	require.Equal(t, 0, h.Run(ctx, []string{"shorten", "https://example.com,gone"}))

	out.Reset()
	code := h.Run(ctx, []string{"delete", "gone"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), `deleted "gone"`)

	out.Reset()
	code = h.Run(ctx, []string{"list"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "no links yet")
}

func TestHandler_LogViewAndClear(t *testing.T) {
	h, out, _ := setupHandler(t)
	ctx := context.Background()

	require.Equal(t, 0, h.Run(ctx, []string{"shorten", "https://example.com,evt"}))

	out.Reset()
	code := h.Run(ctx, []string{"log"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "LINK_CREATED")
	assert.Contains(t, out.String(), "code=evt")

	out.Reset()
	code = h.Run(ctx, []string{"log", "-clear"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "action log cleared")

	out.Reset()
	code = h.Run(ctx, []string{"log"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "action log is empty")
}
