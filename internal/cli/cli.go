package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shortbox/internal/domain"
	"shortbox/internal/preview"
	"shortbox/internal/shortener"
	"shortbox/internal/storage"
)

// Handler holds dependencies for the command surface.
type Handler struct {
	mgr     *shortener.Manager
	res     *shortener.Resolver
	actions storage.ActionLog
	fetcher preview.Fetcher
	log     logrus.FieldLogger
	out     io.Writer
	nowFunc func() time.Time
	openURL func(string) error
}

// NewHandler creates the command handler.
func NewHandler(mgr *shortener.Manager, res *shortener.Resolver, actions storage.ActionLog, fetcher preview.Fetcher, logger logrus.FieldLogger, out io.Writer) *Handler {
	return &Handler{
		mgr:     mgr,
		res:     res,
		actions: actions,
		fetcher: fetcher,
		log:     logger.WithField("component", "cli"),
		out:     out,
		nowFunc: time.Now,
		openURL: launchBrowser,
	}
}

// Run dispatches args (without the program name) and returns the process
// exit code. Any unrecognized single token shaped like a short code is
// treated as a lookup, the same way a path segment would be.
func (h *Handler) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		h.usage()
		return 1
	}

	switch args[0] {
	case "shorten":
		return h.shorten(args[1:])
	case "list":
		return h.list()
	case "open":
		if len(args) != 2 {
			fmt.Fprintln(h.out, "usage: shortbox open CODE")
			return 1
		}
		return h.open(args[1])
	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(h.out, "usage: shortbox delete CODE")
			return 1
		}
		return h.delete(args[1])
	case "inspect":
		if len(args) != 2 {
			fmt.Fprintln(h.out, "usage: shortbox inspect CODE")
			return 1
		}
		return h.inspect(ctx, args[1])
	case "log":
		return h.logCmd(args[1:])
	}

	// Routing fallback: a lone code-shaped segment is a redirect lookup.
	if len(args) == 1 && shortener.ValidCode(args[0]) {
		return h.open(args[0])
	}

	h.usage()
	return 1
}

func (h *Handler) usage() {
	fmt.Fprintln(h.out, `usage: shortbox COMMAND

  shorten URL[,CODE[,MINUTES]] ...   create up to 5 short links
  list                               list all links, newest first
  open CODE                          resolve a code and open the destination
  delete CODE                        delete a link
  inspect CODE                       show a link record and page metadata
  log [-clear]                       show or clear the action log

A bare CODE argument is shorthand for "open CODE".`)
}

// shorten parses each positional spec as URL[,CODE[,MINUTES]] and submits
// them as one batch.
func (h *Handler) shorten(args []string) int {
	fs := flag.NewFlagSet("shorten", flag.ContinueOnError)
	fs.SetOutput(h.out)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	specs := fs.Args()
	if len(specs) == 0 {
		fmt.Fprintln(h.out, "usage: shortbox shorten URL[,CODE[,MINUTES]] ...")
		return 1
	}
	if len(specs) > shortener.DefaultMaxBatch {
		fmt.Fprintf(h.out, "at most %d links per submission\n", shortener.DefaultMaxBatch)
		return 1
	}

	reqs := make([]shortener.CreateRequest, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, ",", 3)
		req := shortener.CreateRequest{URL: parts[0]}
		if len(parts) > 1 {
			req.Code = parts[1]
		}
		if len(parts) > 2 {
			req.Minutes = parts[2]
		}
		reqs = append(reqs, req)
	}

	n, err := h.mgr.Create(reqs)
	if err != nil {
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(h.out, "created %d link(s)\n", n)
	return h.list()
}

func (h *Handler) list() int {
	recs, err := h.mgr.List()
	if err != nil {
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}
	if len(recs) == 0 {
		fmt.Fprintln(h.out, "no links yet")
		return 0
	}
	now := h.nowFunc()
	for _, rec := range recs {
		state := "expired"
		if !rec.Expired(now) {
			state = fmt.Sprintf("expires in %s", rec.Remaining(now).Round(time.Second))
		}
		fmt.Fprintf(h.out, "%s\t%s\t%s\t%d click(s)\n", rec.Code, rec.URL, state, rec.Clicks)
	}
	return 0
}

func (h *Handler) open(code string) int {
	dest, err := h.res.Resolve(code)
	switch {
	case domain.IsNotFound(err):
		fmt.Fprintf(h.out, "short link %q not found\n", code)
		return 1
	case domain.IsExpired(err):
		fmt.Fprintf(h.out, "short link %q has expired\n", code)
		return 1
	case err != nil:
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(h.out, dest)
	if err := h.openURL(dest); err != nil {
		// The destination is already printed; failing to launch a
		// browser is not a resolution failure.
		h.log.WithError(err).Warn("Could not open browser")
	}
	return 0
}

func (h *Handler) delete(code string) int {
	if err := h.mgr.Delete(code); err != nil {
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(h.out, "deleted %q\n", code)
	return 0
}

func (h *Handler) inspect(ctx context.Context, code string) int {
	rec, err := h.mgr.Get(code)
	if domain.IsNotFound(err) {
		fmt.Fprintf(h.out, "short link %q not found\n", code)
		return 1
	}
	if err != nil {
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}

	now := h.nowFunc()
	fmt.Fprintf(h.out, "code:      %s\n", rec.Code)
	fmt.Fprintf(h.out, "url:       %s\n", rec.URL)
	fmt.Fprintf(h.out, "created:   %s\n", time.UnixMilli(rec.CreatedAt).Format(time.RFC3339))
	fmt.Fprintf(h.out, "expires:   %s\n", time.UnixMilli(rec.ExpiresAt).Format(time.RFC3339))
	fmt.Fprintf(h.out, "clicks:    %d\n", rec.Clicks)
	if rec.Expired(now) {
		fmt.Fprintln(h.out, "state:     expired")
	} else {
		fmt.Fprintf(h.out, "state:     live, %s remaining\n", rec.Remaining(now).Round(time.Second))
	}

	if h.fetcher != nil {
		meta, err := h.fetcher.Fetch(ctx, rec.URL)
		if err != nil {
			fmt.Fprintf(h.out, "preview:   unavailable (%v)\n", err)
			return 0
		}
		if meta.Title != "" {
			fmt.Fprintf(h.out, "title:     %s\n", meta.Title)
		}
		if meta.Description != "" {
			fmt.Fprintf(h.out, "about:     %s\n", meta.Description)
		}
	}
	return 0
}

func (h *Handler) logCmd(args []string) int {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(h.out)
	clearLog := fs.Bool("clear", false, "clear the action log")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *clearLog {
		if err := h.actions.Clear(); err != nil {
			fmt.Fprintf(h.out, "error: %v\n", err)
			return 1
		}
		fmt.Fprintln(h.out, "action log cleared")
		return 0
	}

	entries, err := h.actions.All()
	if err != nil {
		fmt.Fprintf(h.out, "error: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(h.out, "action log is empty")
		return 0
	}
	for _, e := range entries {
		fmt.Fprintf(h.out, "%s  %-24s %s\n", e.TS, e.Type, formatPayload(e.Payload))
	}
	return 0
}

func formatPayload(payload map[string]any) string {
	if len(payload) == 0 {
		return ""
	}
	parts := make([]string, 0, len(payload))
	for _, key := range []string{"code", "url", "to", "expiresAt"} {
		if v, ok := payload[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	return strings.Join(parts, " ")
}
