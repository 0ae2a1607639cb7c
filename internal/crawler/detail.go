package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// MaxDetailChars caps enriched detail text, measured in runes so multi-byte
// text is never split mid-character.
const MaxDetailChars = 2000

// detailSelectors are common "article body" conventions, tried in order until
// one yields non-empty text.
var detailSelectors = []string{
	`div[class*='entry-content']`,
	`article div[class*='content']`,
	`div[class*='post-content']`,
	`div[class*='single-content']`,
	`section[class*='content']`,
}

// Enricher fetches detail pages and extracts a bounded body text. It is an
// optional capability: the default crawl path does not depend on it.
type Enricher struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewEnricher builds an Enricher over the given fetcher.
func NewEnricher(fetcher Fetcher, logger *zap.Logger) *Enricher {
	return &Enricher{fetcher: fetcher, logger: logger}
}

// DetailText returns the article body of a detail page, or nil when the page
// cannot be fetched or yields no text. Best effort: it never fails.
func (e *Enricher) DetailText(ctx context.Context, url string) *string {
	html, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		e.logger.Debug("detail fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	for _, sel := range detailSelectors {
		if text := collapseSpace(doc.Find(sel).First().Text()); text != "" {
			return truncated(text)
		}
	}
	if text := collapseSpace(doc.Text()); text != "" {
		return truncated(text)
	}
	return nil
}

func truncated(s string) *string {
	if r := []rune(s); len(r) > MaxDetailChars {
		s = string(r[:MaxDetailChars])
	}
	return &s
}
