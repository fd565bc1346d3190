package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ent0n29/muxd/internal/notify"
)

// Metrics groups all Prometheus instruments used by the server.
type Metrics struct {
	CommandsExecuted *prometheus.CounterVec
	HooksFired       prometheus.Counter
	QueueDrains      prometheus.Counter
	ActiveSessions   prometheus.Gauge
	ControlClients   prometheus.Gauge
	NotifyBatchSize  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CommandsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_executed_total",
			Help:      "Commands executed by disposition.",
		}, []string{"disposition"}),
		HooksFired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hooks_fired_total",
			Help:      "Hook command lists expanded into child queues.",
		}),
		QueueDrains: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_drains_total",
			Help:      "Times a command queue ran empty.",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live sessions.",
		}),
		ControlClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "control_clients",
			Help:      "Number of connected control-mode clients.",
		}),
		NotifyBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notify_batch_size",
			Help:      "Notifications delivered per batch when the bus re-enables.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
}

// HandleEvent is a notification subscriber keeping counters in step
// with queue activity.
func (m *Metrics) HandleEvent(ev notify.Event) {
	switch ev.Type {
	case notify.EventCommandExecuted:
		disposition, _ := ev.Data["disposition"].(string)
		m.CommandsExecuted.WithLabelValues(disposition).Inc()
	case notify.EventHookFired:
		m.HooksFired.Inc()
	case notify.EventQueueDrained:
		m.QueueDrains.Inc()
	case notify.EventSessionCreated:
		m.ActiveSessions.Inc()
	case notify.EventSessionClosed:
		m.ActiveSessions.Dec()
	}
}

// ObserveNotifyBatch records the size of a delivered notification batch.
func (m *Metrics) ObserveNotifyBatch(n int) {
	if n > 0 {
		m.NotifyBatchSize.Observe(float64(n))
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
