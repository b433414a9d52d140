package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Notification = (*notificationMetrics)(nil)

type notificationMetrics struct {
	sent   *prometheus.CounterVec
	failed *prometheus.CounterVec
}

func newNotificationMetrics(registry *promRegistry) *notificationMetrics {
	sent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_notifications_sent_total",
			Help: "Total number of Telegram notifications delivered, by kind",
		},
		[]string{"kind"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_notifications_failed_total",
			Help: "Total number of Telegram notifications that were not delivered, by kind and reason",
		},
		[]string{"kind", "reason"},
	)

	registry.registry.MustRegister(sent, failed)

	return &notificationMetrics{
		sent:   sent,
		failed: failed,
	}
}

func (m *notificationMetrics) Sent(kind string) {
	m.sent.WithLabelValues(kind).Add(1)
}

func (m *notificationMetrics) Failed(kind string, reason string) {
	m.failed.WithLabelValues(kind, reason).Add(1)
}
