package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(jobsProcessedTotal, dispatcherTicksSkipped) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "optimization_jobs_processed_total",
		Help: "Total number of optimization jobs processed, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var dispatcherTicksSkipped = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "dispatcher_ticks_skipped_total",
		Help: "Ticks skipped because a previous job was still in flight.",
	},
)

func IncJobProcessed(status string) {
	jobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncDispatcherTickSkipped() {
	dispatcherTicksSkipped.Inc()
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
