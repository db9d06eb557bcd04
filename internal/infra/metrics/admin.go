package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(adminActionsTotal) }

var adminActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admin",
		Name:      "actions_total",
		Help:      "Admin keyboard actions and admin callbacks, by action and whether the sender was an admin.",
	},
	[]string{"action", "status"}, // status: 'authorized', 'unauthorized'
)

func IncAdminCommand(action, status string) {
	adminActionsTotal.WithLabelValues(norm(action), norm(status)).Inc()
}
