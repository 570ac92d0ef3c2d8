package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_cache_hits_total",
		Help: "Total number of cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_cache_misses_total",
		Help: "Total number of cache misses, including reads that fell through on error.",
	})
	localHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_cache_local_hits_total",
		Help: "Total number of hits served by the in-process tier.",
	})
	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_cache_errors_total",
		Help: "Total number of failed cache operations.",
	}, []string{"op"})
	invalidatedKeys = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_cache_invalidated_keys_total",
		Help: "Total number of keys removed by pattern invalidation.",
	})
	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_cache_compute_duration_seconds",
		Help:    "Time spent recomputing a value after a miss, by key family.",
		Buckets: prometheus.DefBuckets,
	}, []string{"family"})
	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nexus_cache_breaker_state",
		Help: "Redis cache circuit breaker state (0 closed, 1 half-open, 2 open).",
	})
)
