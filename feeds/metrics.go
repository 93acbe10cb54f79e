package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customtube_cache_hits_total",
		Help: "Keyword fetches served from the search cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customtube_cache_misses_total",
		Help: "Keyword fetches that went to the search provider",
	})

	providerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customtube_provider_errors_total",
		Help: "Search provider calls that failed",
	})

	cacheWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customtube_cache_write_errors_total",
		Help: "Fresh results that could not be written to the search cache",
	})

	feedAssemblies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customtube_feed_assemblies_total",
		Help: "Number of feeds assembled",
	})

	feedSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "customtube_feed_videos",
		Help:    "Number of videos in an assembled feed",
		Buckets: prometheus.LinearBuckets(0, 10, 10),
	})
)
