package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(usersRegisteredTotal, telegramCommandsTotal, rateLimitedTotal)
}

var (
	usersRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Customers who completed the registration form.",
	})

	telegramCommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "telegram",
		Name:      "commands_total",
		Help:      "Slash commands received; unrouted commands are counted as 'other'.",
	}, []string{"command"})

	rateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "telegram",
		Name:      "rate_limited_total",
		Help:      "Updates dropped by the per-user rate limiter.",
	})
)

func IncUsersRegistered() { usersRegisteredTotal.Inc() }

func IncTelegramCommand(command string) {
	telegramCommandsTotal.WithLabelValues(norm(command)).Inc()
}

func IncRateLimitTriggered() { rateLimitedTotal.Inc() }
