package crawler

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ferit-stup/radovi-crawler/internal/metrics"
)

// Config controls URL construction and pagination for one crawl.
type Config struct {
	// Origin is the site root, e.g. https://stup.ferit.hr.
	Origin string
	// ListingPath is the listing root path including trailing slash,
	// e.g. /zavrsni-radovi/.
	ListingPath string
	// MaxPages is a safety cap; the expected termination is the first page
	// that yields zero records.
	MaxPages int
}

// Crawler walks the paginated listing sequentially and aggregates
// deduplicated records.
type Crawler struct {
	cfg     Config
	fetcher Fetcher
	logger  *zap.Logger
}

// New builds a Crawler.
func New(cfg Config, fetcher Fetcher, logger *zap.Logger) *Crawler {
	return &Crawler{cfg: cfg, fetcher: fetcher, logger: logger}
}

// PageURL maps a 1-based page number onto the site's pagination convention:
// page 1 is the listing root, later pages append page/<n>/.
func (c *Crawler) PageURL(page int) string {
	base := strings.TrimSuffix(c.cfg.Origin, "/") + c.cfg.ListingPath
	if page == 1 {
		return base
	}
	return fmt.Sprintf("%spage/%d/", base, page)
}

// CrawlAll fetches listing pages in order until one yields no records or the
// page cap is reached, then deduplicates the aggregate by link.
//
// Pages must be fetched sequentially: whether page n+1 exists is only known
// after parsing page n. Any fetch error aborts the whole crawl; an
// unreachable listing page signals systemic unavailability, not a per-item
// problem worth retrying.
func (c *Crawler) CrawlAll(ctx context.Context) ([]Record, error) {
	var all []Record
	for page := 1; page <= c.cfg.MaxPages; page++ {
		pageURL := c.PageURL(page)
		html, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		metrics.IncPageFetched()

		records := ParseListing(html, c.cfg.Origin)
		if len(records) == 0 {
			c.logger.Debug("empty listing page, stopping", zap.Int("page", page))
			break
		}
		metrics.AddRecordsParsed(len(records))
		c.logger.Info("parsed listing page",
			zap.Int("page", page),
			zap.Int("records", len(records)),
		)
		all = append(all, records...)
	}
	return Dedupe(all), nil
}

// Dedupe drops records with empty links and later duplicates of the same
// link, preserving first-seen order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Link == "" {
			continue
		}
		if _, dup := seen[r.Link]; dup {
			continue
		}
		seen[r.Link] = struct{}{}
		out = append(out, r)
	}
	return out
}
