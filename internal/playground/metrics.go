package playground

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "playground"

// Metrics counts shell activity.
//
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	consoleMessages *prometheus.CounterVec
	droppedMessages prometheus.Counter
	resets          prometheus.Counter
	resetFailures   prometheus.Counter
	drags           prometheus.Counter
	discardedRatios prometheus.Counter
}

// NewMetrics creates the shell's collectors and registers them with reg.
//
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		consoleMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "console_messages_total",
			Help:      "Console messages captured, by level.",
		}, []string{"level"}),
		droppedMessages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "console_messages_dropped_total",
			Help:      "Console messages that arrived after their capture was detached.",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resets_total",
			Help:      "Completed session resets.",
		}),
		resetFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reset_failures_total",
			Help:      "Resets whose new session could not be created.",
		}),
		drags: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "divider_drags_total",
			Help:      "Divider drags started.",
		}),
		discardedRatios: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "split_ratios_discarded_total",
			Help:      "Split ratios discarded because the container had no width.",
		}),
	}
}

func (m *Metrics) consoleMessage(level LogLevel) {
	if m == nil {
		return
	}
	m.consoleMessages.WithLabelValues(level.String()).Inc()
}

func (m *Metrics) droppedMessage() {
	if m == nil {
		return
	}
	m.droppedMessages.Inc()
}

func (m *Metrics) reset(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.resetFailures.Inc()
		return
	}
	m.resets.Inc()
}

func (m *Metrics) dragStarted() {
	if m == nil {
		return
	}
	m.drags.Inc()
}

func (m *Metrics) ratioDiscarded() {
	if m == nil {
		return
	}
	m.discardedRatios.Inc()
}
