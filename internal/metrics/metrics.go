package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldsvc",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reschedules = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldsvc",
			Name:      "order_reschedule_total",
			Help:      "Count of drag-and-drop reschedule attempts by result.",
		},
		[]string{"result"},
	)

	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldsvc",
			Name:      "order_status_change_total",
			Help:      "Count of order status transitions by target status.",
		},
		[]string{"status"},
	)

	analyticsRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fieldsvc",
			Name:      "analytics_runs_total",
			Help:      "Count of analytics summary computations.",
		},
	)

	alertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fieldsvc",
			Name:      "alerts_sent_total",
			Help:      "Count of dispatcher alerts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reschedules, statusChanges, analyticsRuns, alertsSent)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncReschedule(result string) {
	reschedules.WithLabelValues(result).Inc()
}

func IncStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}

func IncAnalyticsRun() {
	analyticsRuns.Inc()
}

func IncAlertSent(outcome string) {
	alertsSent.WithLabelValues(outcome).Inc()
}
