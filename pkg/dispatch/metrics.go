package dispatch

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the dispatcher's prometheus collectors.
type Metrics struct {
	Enqueued   prometheus.Counter
	Dispatched *prometheus.CounterVec
	Errors     *prometheus.CounterVec
	QueueDepth prometheus.Gauge
}

const (
	reasonUnknown = "unknown"
	reasonHandler = "handler"
)

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envelope_enqueued_total",
			Help: "Total envelopes submitted to the dispatch queue",
		}),
		Dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envelope_dispatched_total",
				Help: "Total envelopes handled successfully by command",
			},
			[]string{"cmd"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envelope_dispatch_errors_total",
				Help: "Total dispatch failures by reason",
			},
			[]string{"reason"}, // unknown|handler
		),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envelope_queue_depth",
			Help: "Envelopes waiting in the dispatch queue",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Enqueued, m.Dispatched, m.Errors, m.QueueDepth)
	}
	return m
}

func (m *Metrics) incDispatched(cmd uint64) {
	m.Dispatched.WithLabelValues(strconv.FormatUint(cmd, 10)).Inc()
}

func (m *Metrics) incError(reason string) { m.Errors.WithLabelValues(reason).Inc() }
