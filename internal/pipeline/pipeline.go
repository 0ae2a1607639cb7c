// Package pipeline wires crawl, upsert and read-back into one run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
	"github.com/ferit-stup/radovi-crawler/internal/metrics"
	"github.com/ferit-stup/radovi-crawler/internal/storage/postgres"
)

// Crawler produces the deduplicated record set for one run.
type Crawler interface {
	CrawlAll(ctx context.Context) ([]crawler.Record, error)
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	UpsertAll(ctx context.Context, records []crawler.Record) error
	ReadAll(ctx context.Context) ([]postgres.StoredRecord, error)
}

// Enricher fills in detail-page text for a record link, best effort.
type Enricher interface {
	DetailText(ctx context.Context, url string) *string
}

// Result is the aggregate payload of one run: how many records this crawl
// produced, and the full store contents after the upsert.
type Result struct {
	InsertedCount int                     `json:"inserted_count"`
	Rows          []postgres.StoredRecord `json:"rows_in_db"`
}

// Pipeline runs one end-to-end acquisition pass.
type Pipeline struct {
	crawler  Crawler
	store    Store
	enricher Enricher
	logger   *zap.Logger
}

// New builds a Pipeline. The enricher may be nil; enrichment is an optional
// capability, not part of the default path.
func New(c Crawler, s Store, e Enricher, logger *zap.Logger) *Pipeline {
	return &Pipeline{crawler: c, store: s, enricher: e, logger: logger}
}

// Run crawls the listing, upserts its records and reads the store back.
// It returns either a complete Result or a single error; there is no partial
// progress reporting.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))
	start := time.Now()

	records, err := p.crawler.CrawlAll(ctx)
	if err != nil {
		metrics.IncRun("failed")
		return Result{}, fmt.Errorf("crawl: %w", err)
	}
	logger.Info("crawl finished", zap.Int("records", len(records)))

	if p.enricher != nil {
		p.enrich(ctx, records)
	}

	if err := p.store.UpsertAll(ctx, records); err != nil {
		metrics.IncRun("failed")
		return Result{}, fmt.Errorf("persist: %w", err)
	}
	metrics.AddRecordsUpserted(len(records))

	rows, err := p.store.ReadAll(ctx)
	if err != nil {
		metrics.IncRun("failed")
		return Result{}, fmt.Errorf("read back: %w", err)
	}

	metrics.IncRun("succeeded")
	metrics.ObserveRunDuration(time.Since(start).Seconds())
	logger.Info("run complete",
		zap.Int("inserted", len(records)),
		zap.Int("rows", len(rows)),
		zap.Duration("took", time.Since(start)),
	)
	return Result{InsertedCount: len(records), Rows: rows}, nil
}

// enrich fills missing bodies from detail pages. Failures degrade silently;
// a record simply keeps its nil body.
func (p *Pipeline) enrich(ctx context.Context, records []crawler.Record) {
	enriched := 0
	for i := range records {
		if records[i].Body != nil || records[i].Link == "" {
			continue
		}
		if text := p.enricher.DetailText(ctx, records[i].Link); text != nil {
			records[i].Body = text
			enriched++
		}
	}
	p.logger.Info("detail enrichment finished", zap.Int("enriched", enriched))
}
