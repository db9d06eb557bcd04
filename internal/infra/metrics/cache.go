package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheLookupsTotal) }

var cacheLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Redis cache lookups in front of postgres repositories, by cache and result.",
	},
	[]string{"cache", "result"},
)

// ObserveCache counts one lookup of cache as a hit or a miss.
func ObserveCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(norm(cache), result).Inc()
}
