package scrape

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scrapeRunsTotal         *prometheus.CounterVec
	scrapeCandidatesTotal   prometheus.Counter
	scrapePagesTotal        *prometheus.CounterVec
	scrapeCacheLookupsTotal *prometheus.CounterVec
	scrapeDurationSeconds   prometheus.Histogram

	metricsOnce sync.Once
)

// initMetrics registers the pipeline collectors. Safe to call repeatedly.
func initMetrics() {
	metricsOnce.Do(func() {
		scrapeRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_runs_total",
				Help: "Total pipeline runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)
		scrapeCandidatesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "scraper_candidates_total",
				Help: "Total candidate links selected by the classifier.",
			},
		)
		scrapePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_pages_total",
				Help: "Total candidate pages fetched, labeled by status.",
			},
			[]string{"status"},
		)
		scrapeCacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scraper_cache_lookups_total",
				Help: "Total cache lookups, labeled by result.",
			},
			[]string{"result"},
		)
		scrapeDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scraper_run_duration_seconds",
				Help:    "Histogram of end-to-end pipeline run latencies.",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		)
	})
}

func observeRun(outcome string, d time.Duration) {
	if scrapeRunsTotal == nil {
		return
	}
	scrapeRunsTotal.WithLabelValues(outcome).Inc()
	scrapeDurationSeconds.Observe(d.Seconds())
}

func observeCandidates(n int) {
	if scrapeCandidatesTotal == nil {
		return
	}
	scrapeCandidatesTotal.Add(float64(n))
}

func observePage(ok bool) {
	if scrapePagesTotal == nil {
		return
	}
	status := "fetched"
	if !ok {
		status = "failed"
	}
	scrapePagesTotal.WithLabelValues(status).Inc()
}

func observeCacheLookup(result string) {
	if scrapeCacheLookupsTotal == nil {
		return
	}
	scrapeCacheLookupsTotal.WithLabelValues(result).Inc()
}
