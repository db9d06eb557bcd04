package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(dbConnections) }

var dbConnections = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "connections",
		Help:      "Connections of the postgres pool by state.",
	},
	[]string{"state"},
)

// PoolStat is the part of *pgxpool.Stat the gauge reads.
type PoolStat interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
	MaxConns() int32
}

func ObservePool(s PoolStat) {
	dbConnections.WithLabelValues("total").Set(float64(s.TotalConns()))
	dbConnections.WithLabelValues("idle").Set(float64(s.IdleConns()))
	dbConnections.WithLabelValues("acquired").Set(float64(s.AcquiredConns()))
	dbConnections.WithLabelValues("max").Set(float64(s.MaxConns()))
}
