package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

const fetchTimeout = 30 * time.Second

// RodFetcher implements Fetcher with a headless browser. A fresh browser is
// launched per fetch; inspect is an occasional interactive action, not a
// hot path.
type RodFetcher struct {
	log logrus.FieldLogger
}

func NewRodFetcher(logger logrus.FieldLogger) *RodFetcher {
	return &RodFetcher{
		log: logger.WithField("component", "preview"),
	}
}

// Fetch loads the page at url and extracts its title and meta description.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (meta Metadata, err error) {
	log := f.log.WithField("url", url)

	path, exists := launcher.LookPath()
	if !exists {
		return Metadata{}, errors.New("no browser executable found for preview")
	}
	u := launcher.New().Bin(path).MustLaunch()
	browser := rod.New().ControlURL(u)
	if err = browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to browser")
		return Metadata{}, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing browser: %w", closeErr)
		}
	}()

	var page *rod.Page
	page, err = browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing page: %w", closeErr)
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err = page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.Warn("Preview fetch timed out")
			return Metadata{}, fmt.Errorf("preview timed out for %s: %w", url, pageCtx.Err())
		}
		return Metadata{}, fmt.Errorf("failed waiting for page load: %w", err)
	}

	if titleElement, elErr := page.Element("title"); elErr == nil {
		if title, textErr := titleElement.Text(); textErr == nil {
			meta.Title = strings.TrimSpace(title)
		}
	} else {
		log.Warn("Page has no title element")
	}

	// Prefer the plain meta description, fall back to Open Graph.
	for _, selector := range []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	} {
		descElement, elErr := page.Element(selector)
		if elErr != nil {
			continue
		}
		if content, attrErr := descElement.Attribute("content"); attrErr == nil && content != nil {
			meta.Description = strings.TrimSpace(*content)
			if meta.Description != "" {
				break
			}
		}
	}

	log.WithField("title", meta.Title).Debug("Preview fetched")
	return meta, nil
}

var _ Fetcher = (*RodFetcher)(nil)
