package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(optimizeRunsTotal, geocodeCacheTotal) }

var optimizeRunsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "optimize_runs_total",
		Help: "Total number of completed assignment engine runs.",
	},
)

var geocodeCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geocode_cache_requests_total",
		Help: "Geocode cache lookups, labeled by outcome.",
	},
	[]string{"outcome"}, // 'hit', 'miss'
)

func IncOptimizeRun() {
	optimizeRunsTotal.Inc()
}

func IncGeocodeCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	geocodeCacheTotal.WithLabelValues(outcome).Inc()
}
