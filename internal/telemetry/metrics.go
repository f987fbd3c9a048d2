// Package telemetry exposes the Prometheus metrics the core publishes.
// Every exported method tolerates a nil receiver and becomes a no-op, so
// metrics stay entirely optional for a manager pair.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"
)

// Side identifies which manager's notification queue or registry a
// metric observation belongs to.
type Side string

const (
	SideDevice        Side = "device"
	SideControlSystem Side = "control_system"
)

// Metrics is the set of counters/gauges the core publishes. Labels are
// PV name and, where relevant, side — kept low-cardinality by the
// adapter's own nature (one registration per PV name, never dynamic).
type Metrics struct {
	SendsTotal            *prometheus.CounterVec
	OverflowDropsTotal    *prometheus.CounterVec
	ReceivesAcceptedTotal *prometheus.CounterVec
	ReceivesRejectedTotal *prometheus.CounterVec
	RegisteredVariables   *prometheus.GaugeVec
}

var (
	once     sync.Once
	instance *Metrics
)

// Register creates and registers the core's metrics exactly once. If
// registerer is nil, prometheus.DefaultRegisterer is used. Subsequent
// calls return the same instance, so a host application can call this
// from every manager pair it builds without double-registering.
func Register(registerer prometheus.Registerer) *Metrics {
	once.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}
		m := &Metrics{
			SendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pvadapter_sends_total",
				Help: "Total number of successful send() calls, by PV name.",
			}, []string{"pv"}),
			OverflowDropsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pvadapter_overflow_drops_total",
				Help: "Total number of buffers dropped on send() due to a full ring, by PV name.",
			}, []string{"pv"}),
			ReceivesAcceptedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pvadapter_receives_accepted_total",
				Help: "Total number of receive() calls that accepted a new value, by PV name.",
			}, []string{"pv"}),
			ReceivesRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pvadapter_receives_rejected_total",
				Help: "Total number of receive() calls that found nothing or a stale version, by PV name.",
			}, []string{"pv"}),
			RegisteredVariables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "pvadapter_registered_variables",
				Help: "Number of process variables currently registered, by side.",
			}, []string{"side"}),
		}
		registerer.MustRegister(
			m.SendsTotal,
			m.OverflowDropsTotal,
			m.ReceivesAcceptedTotal,
			m.ReceivesRejectedTotal,
			m.RegisteredVariables,
		)
		instance = m
	})
	return instance
}

func pvLabel(name string) prometheus.Labels {
	return prometheus.Labels{"pv": string(model.LabelValue(name))}
}

// ObserveSend records a successful send, and whether it dropped a
// previously-sent buffer due to overflow.
func (m *Metrics) ObserveSend(pv string, overflowed bool) {
	if m == nil {
		return
	}
	m.SendsTotal.With(pvLabel(pv)).Inc()
	if overflowed {
		m.OverflowDropsTotal.With(pvLabel(pv)).Inc()
	}
}

// ObserveReceive records the outcome of a receive() call.
func (m *Metrics) ObserveReceive(pv string, accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.ReceivesAcceptedTotal.With(pvLabel(pv)).Inc()
	} else {
		m.ReceivesRejectedTotal.With(pvLabel(pv)).Inc()
	}
}

// SetRegisteredVariables publishes the current registry size for side.
func (m *Metrics) SetRegisteredVariables(side Side, count int) {
	if m == nil {
		return
	}
	m.RegisteredVariables.With(prometheus.Labels{"side": string(side)}).Set(float64(count))
}
