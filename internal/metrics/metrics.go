// Package metrics exposes Prometheus collectors for the acquisition pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listingPagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radovi_listing_pages_fetched_total",
		Help: "Total number of listing pages fetched.",
	})

	recordsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radovi_records_parsed_total",
		Help: "Total number of records extracted from listing pages.",
	})

	recordsUpserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radovi_records_upserted_total",
		Help: "Total number of records written to the store.",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radovi_runs_total",
		Help: "Total number of pipeline runs, labeled by outcome.",
	}, []string{"status"})

	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radovi_run_duration_seconds",
		Help:    "Histogram of end-to-end pipeline run latencies.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

// IncPageFetched records one fetched listing page.
func IncPageFetched() {
	listingPagesFetched.Inc()
}

// AddRecordsParsed records n records extracted from a listing page.
func AddRecordsParsed(n int) {
	recordsParsed.Add(float64(n))
}

// AddRecordsUpserted records n records written to the store.
func AddRecordsUpserted(n int) {
	recordsUpserted.Add(float64(n))
}

// IncRun records one finished pipeline run with its outcome.
func IncRun(status string) {
	runsTotal.WithLabelValues(status).Inc()
}

// ObserveRunDuration records the wall-clock duration of one run.
func ObserveRunDuration(seconds float64) {
	runDurationSeconds.Observe(seconds)
}
