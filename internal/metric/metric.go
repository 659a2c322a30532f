// Package metric holds the Prometheus metrics of the MDIB provider and the
// registry that serves them.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Outcome labels of StateRecords.
const (
	StateApplied  = "applied"
	StateStale    = "stale"
	StateRejected = "rejected"
)

// Result labels of ArchiveBatches.
const (
	BatchWritten = "written"
	BatchDropped = "dropped"
	BatchFailed  = "failed"
)

// Metrics contains the provider metrics. Unregistered metrics still count,
// so components fall back to NewMetrics when none are given.
type Metrics struct {
	MdibVersion    prometheus.Gauge
	StateRecords   *prometheus.CounterVec
	ArchiveBatches *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		MdibVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "openmdib",
			Subsystem: "mdib",
			Name:      "version",
			Help:      "Current MdibVersion of the local MDIB",
		}),
		StateRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "openmdib",
				Subsystem: "mdib",
				Name:      "state_records_total",
				Help:      "Incoming state records by outcome (applied, stale, rejected)",
			},
			[]string{"outcome"},
		),
		ArchiveBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "openmdib",
				Subsystem: "archive",
				Name:      "batches_total",
				Help:      "Archive batches by result (written, dropped, failed)",
			},
			[]string{"result"},
		),
	}
}

// Registry owns the Prometheus registry the provider exposes.
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

func NewRegistry() *Registry {
	r := &Registry{
		prometheusRegistry: prometheus.NewRegistry(),
		Metrics:            NewMetrics(),
	}
	r.prometheusRegistry.MustRegister(
		r.Metrics.MdibVersion,
		r.Metrics.StateRecords,
		r.Metrics.ArchiveBatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
}

// Value reads the current value of a counter or gauge.
func Value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return 0
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}
