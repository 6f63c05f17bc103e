// Package trends scrapes trending search terms. The trending page is fully
// client-rendered, so a real browser drives the fetch.
package trends

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"promopilot.app/writer/core/config"
)

const trendURLFormat = "https://trends.google.co.kr/trending?geo=%s"

type Source struct {
	headless bool
	timeout  time.Duration
	geo      string
}

func NewSource(browser config.BrowserConfig, geo string) *Source {
	if geo == "" {
		geo = "KR"
	}
	return &Source{
		headless: browser.Headless,
		timeout:  browser.NavTimeout,
		geo:      geo,
	}
}

// Fetch returns up to limit trend terms. Scrape failures are logged and
// yield an empty slice; the caller decides whether that is fatal.
func (s *Source) Fetch(ctx context.Context, limit int) ([]string, error) {
	terms, err := s.scrape(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "trend scrape failed", "error", err)
		return nil, nil
	}
	slog.InfoContext(ctx, "trend scrape completed", "count", len(terms), "limit", limit)
	return terms, nil
}

func (s *Source) scrape(ctx context.Context, limit int) ([]string, error) {
	l := launcher.New().Headless(s.headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c := newCollector(limit)
	err = rod.Try(func() {
		page := browser.Context(ctx).MustPage(fmt.Sprintf(trendURLFormat, s.geo))
		defer page.MustClose()

		page.MustWaitLoad()
		time.Sleep(2 * time.Second)
		page.MustEval(`() => window.scrollTo(0, document.body.scrollHeight)`)
		time.Sleep(time.Second)

		// Trend table cells first; they are the real entries.
		for _, sel := range []string{"tbody tr .mZ3RIc", ".mZ3RIc"} {
			for _, el := range page.MustElements(sel) {
				if c.add(el.MustText()) {
					return
				}
			}
		}

		// Then anchors, then generic text nodes (first line only). These
		// cascade in when the table selector rots.
		for _, el := range page.MustElements("a") {
			if c.add(el.MustText()) {
				return
			}
		}
		for _, el := range page.MustElements("div, span, p, h1, h2, h3, h4, h5") {
			text := el.MustText()
			first, _, _ := strings.Cut(text, "\n")
			if c.add(first) {
				return
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scrape trending page: %w", err)
	}

	return c.terms, nil
}
