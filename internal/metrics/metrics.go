// Package metrics exposes prometheus collectors for upstream calls and the
// local movie store.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream names used as label values.
const (
	UpstreamDataverse = "dataverse"
	UpstreamKOBIS     = "kobis"
)

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "bad_status"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeDecode  = "decode_error"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dvmovies_upstream_requests_total",
		Help: "Total number of outbound requests by upstream and outcome",
	}, []string{"upstream", "outcome"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dvmovies_upstream_request_duration_seconds",
		Help:    "Latency of outbound requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"upstream"})

	catalogPagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dvmovies_catalog_pages_total",
		Help: "Dataverse search pages fetched",
	})

	skippedDescriptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dvmovies_skipped_descriptions_total",
		Help: "Datasets skipped because their description could not be parsed",
	})

	registryCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dvmovies_registry_cache_total",
		Help: "Movie registry cache lookups by result",
	}, []string{"result"})

	uploadedMoviesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dvmovies_uploaded_movies_total",
		Help: "Movies received on upload by result",
	}, []string{"result"})
)

// ObserveUpstream records one outbound request.
func ObserveUpstream(upstream, outcome string, elapsed time.Duration) {
	upstream = strings.ToLower(upstream)
	switch outcome {
	case OutcomeOK, OutcomeStatus, OutcomeError, OutcomeTimeout, OutcomeDecode:
	default:
		outcome = OutcomeError
	}
	upstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(upstream).Observe(elapsed.Seconds())
}

// IncCatalogPage counts one fetched search page.
func IncCatalogPage() {
	catalogPagesTotal.Inc()
}

// AddSkippedDescriptions counts datasets dropped by the description parser.
func AddSkippedDescriptions(n int) {
	if n > 0 {
		skippedDescriptionsTotal.Add(float64(n))
	}
}

// IncRegistryCache records a registry cache hit or miss.
func IncRegistryCache(hit bool) {
	if hit {
		registryCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	registryCacheTotal.WithLabelValues("miss").Inc()
}

// AddUploaded records the result of an upload batch.
func AddUploaded(result string, n int) {
	if n > 0 {
		uploadedMoviesTotal.WithLabelValues(result).Add(float64(n))
	}
}
