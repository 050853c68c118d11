// Package metrics defines the Prometheus collectors exported by the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

// Metrics holds the ledger's counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	obligations   *prometheus.CounterVec
	reconcileRuns *prometheus.CounterVec
	discrepancies *prometheus.CounterVec
	rebuilds      prometheus.Counter
	txRetries     prometheus.Counter
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		obligations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obligations_total",
			Help:      "Obligations recorded against the ledger, by outcome.",
		}, []string{"outcome"}),
		reconcileRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs, by result status.",
		}, []string{"status"}),
		discrepancies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_discrepancies_total",
			Help:      "Discrepancies found by reconciliation, by issue.",
		}, []string{"issue"}),
		rebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Group ledgers rebuilt from history.",
		}),
		txRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Write transactions retried after a lock conflict.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObligationRecorded counts one obligation with the given outcome.
func (m *Metrics) ObligationRecorded(outcome string) {
	if m == nil {
		return
	}
	m.obligations.WithLabelValues(outcome).Inc()
}

// ReconcileFinished counts one reconciliation run and its discrepancies by issue.
func (m *Metrics) ReconcileFinished(status string, issues []string) {
	if m == nil {
		return
	}
	m.reconcileRuns.WithLabelValues(status).Inc()
	for _, issue := range issues {
		m.discrepancies.WithLabelValues(issue).Inc()
	}
}

// RebuildFinished counts one ledger rebuild.
func (m *Metrics) RebuildFinished() {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
}

// TxRetried counts one retried write transaction.
func (m *Metrics) TxRetried() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}
