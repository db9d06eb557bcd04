package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		formStepsTotal,
		formCompletionsTotal,
		menuRendersTotal,
		cartOperationsTotal,
	)
}

var (
	formStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_steps_total",
			Help:      "Form step submissions by form and outcome.",
		},
		[]string{"form", "outcome"}, // outcome: 'accepted', 'kept', 'rejected'
	)

	formCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_completions_total",
			Help:      "Finished forms by form and result.",
		},
		[]string{"form", "result"}, // result: 'committed', 'failed', 'cancelled'
	)

	menuRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_renders_total",
			Help:      "Menu screens resolved, labeled by menu name.",
		},
		[]string{"menu"},
	)

	cartOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation.",
		},
		[]string{"op"}, // 'add', 'increment', 'decrement', 'delete'
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Form helpers --------

func IncFormStep(form, outcome string) {
	formStepsTotal.WithLabelValues(norm(form), norm(outcome)).Inc()
}

func IncFormCompletion(form, result string) {
	formCompletionsTotal.WithLabelValues(norm(form), norm(result)).Inc()
}

// -------- Menu / cart helpers --------

func IncMenuRender(menu string) {
	menuRendersTotal.WithLabelValues(norm(menu)).Inc()
}

func IncCartOperation(op string) {
	cartOperationsTotal.WithLabelValues(norm(op)).Inc()
}
