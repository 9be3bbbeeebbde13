// Package metrics provides the prometheus-backed implementation of the
// ledger's MetricsCollector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantina_ledger_transactions_total",
			Help: "Total number of committed ledger transactions",
		},
		[]string{"op"},
	)

	ledgerAmountCentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantina_ledger_amount_cents_total",
			Help: "Total minor-unit volume moved through the ledger",
		},
		[]string{"op"},
	)

	ledgerReplaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantina_ledger_replays_total",
			Help: "Total number of idempotent replays answered without mutation",
		},
		[]string{"op"},
	)

	ledgerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantina_ledger_errors_total",
			Help: "Total number of rejected or failed ledger operations",
		},
		[]string{"op", "type"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cantina_wallet_cache_lookups_total",
			Help: "Wallet view cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// LedgerCollector implements ledger.MetricsCollector on prometheus counters.
type LedgerCollector struct{}

func NewLedgerCollector() *LedgerCollector {
	return &LedgerCollector{}
}

func (c *LedgerCollector) RecordTransaction(op string, amountCents int64) {
	ledgerTransactionsTotal.WithLabelValues(op).Inc()
	ledgerAmountCentsTotal.WithLabelValues(op).Add(float64(amountCents))
}

func (c *LedgerCollector) RecordReplay(op string) {
	ledgerReplaysTotal.WithLabelValues(op).Inc()
}

func (c *LedgerCollector) RecordError(op, errType string) {
	ledgerErrorsTotal.WithLabelValues(op, errType).Inc()
}

func (c *LedgerCollector) RecordCacheHit(string) {
	cacheLookupsTotal.WithLabelValues("hit").Inc()
}

func (c *LedgerCollector) RecordCacheMiss(string) {
	cacheLookupsTotal.WithLabelValues("miss").Inc()
}
