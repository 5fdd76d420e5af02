// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

// Metrics holds every collector on its own registry, so tests and multiple
// states never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	Expenses      prometheus.Counter
	Payments      prometheus.Counter
	Transfers     prometheus.Counter
	SettledAmount prometheus.Counter
	Groups        prometheus.Gauge
	SinkErrors    *prometheus.CounterVec

	RPCs        *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Expenses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_total",
			Help:      "Expenses recorded across all groups.",
		}),
		Payments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Direct payments recorded across all groups.",
		}),
		Transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transfers_total",
			Help:      "Transfers produced by debt simplification.",
		}),
		SettledAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settled_amount_total",
			Help:      "Sum of all settlement transfer amounts.",
		}),
		Groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Number of groups currently registered.",
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Audit entries a sink failed to record.",
		}, []string{"sink"}),
		RPCs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	m.Registry.MustRegister(
		m.Expenses,
		m.Payments,
		m.Transfers,
		m.SettledAmount,
		m.Groups,
		m.SinkErrors,
		m.RPCs,
		m.RPCDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
