package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(updatesProcessedTotal, jobRunsTotal) }

var updatesProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "telegram",
		Name:      "updates_processed_total",
		Help:      "Total number of Telegram updates handled by the worker pool, labeled by status.",
	},
	[]string{"status"}, // 'ok', 'failed', 'dropped'
)

var jobRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_job_runs_total",
		Help:      "Total number of periodic job runs, labeled by job and status.",
	},
	[]string{"job", "status"},
)

func IncUpdateProcessed(status string) {
	updatesProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncJobRun(job, status string) {
	jobRunsTotal.WithLabelValues(norm(job), norm(status)).Inc()
}
