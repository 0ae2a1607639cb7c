package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
	collyfetcher "github.com/ferit-stup/radovi-crawler/internal/fetcher/colly"
	"github.com/ferit-stup/radovi-crawler/internal/pipeline"
	"github.com/ferit-stup/radovi-crawler/internal/storage/postgres"
)

// newCrawlCmd creates the 'crawl' subcommand: one end-to-end acquisition
// pass, with the payload printed as JSON on stdout.
func newCrawlCmd() *cobra.Command {
	var enrich bool
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs one acquisition pass and prints the result as JSON",
		Long: `Fetches the paginated thesis listing, parses and deduplicates its records,
upserts them into Postgres and reads the store back. The result payload
carries the crawled record count and the full current store contents.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCrawl(cmd, enrich)
		},
	}
	cmd.Flags().BoolVar(&enrich, "enrich", false,
		"fill missing record bodies from their detail pages (best effort)")
	return cmd
}

func runCrawl(cmd *cobra.Command, enrich bool) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := postgres.NewRecordStore(ctx, a.cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	result, err := buildPipeline(a, store, enrich).Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// buildPipeline assembles the fetcher, orchestrator and optional enricher
// around the given store.
func buildPipeline(a *app, store pipeline.Store, enrich bool) *pipeline.Pipeline {
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: a.cfg.Site.UserAgent,
		Referer:   a.cfg.Site.Referer,
		Timeout:   a.cfg.FetchTimeout(),
	})
	crawl := crawler.New(crawler.Config{
		Origin:      a.cfg.Site.Origin,
		ListingPath: a.cfg.Site.ListingPath,
		MaxPages:    a.cfg.Site.MaxPages,
	}, fetcher, a.logger.Named("crawler"))

	var enricher pipeline.Enricher
	if enrich {
		enricher = crawler.NewEnricher(fetcher, a.logger.Named("enricher"))
	}
	return pipeline.New(crawl, store, enricher, a.logger.Named("pipeline"))
}
