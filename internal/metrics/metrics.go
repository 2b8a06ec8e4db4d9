// Package metrics exposes the Prometheus collectors for the wallet
// service (C9): HTTP request metrics plus the domain counters a
// transfer engine under concurrent load needs to observe.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

var (
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transfers_total",
			Help: "Total number of transfer attempts by outcome.",
		},
		[]string{"outcome"}, // success, insufficient_funds, currency_mismatch, invalid, duplicate_reference, account_not_found, error
	)

	DepositsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_deposits_total",
			Help: "Total number of system deposits recorded.",
		},
	)

	TransferAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wallet_transfer_amount",
			Help:    "Distribution of successful transfer amounts in the currency's major units.",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	LockWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wallet_lock_wait_seconds",
			Help:    "Time spent waiting to acquire ordered account locks.",
			Buckets: prometheus.DefBuckets,
		},
	)

	LedgerVerificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_ledger_verification_failures_total",
			Help: "Total number of account balance reconciliation failures.",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_events_published_total",
			Help: "Total number of domain events published, by topic and outcome.",
		},
		[]string{"topic", "outcome"},
	)
)

// RecordTransferOutcome increments the transfer counter for outcome and,
// on success, observes amount in the transfer amount histogram.
func RecordTransferOutcome(outcome string, amount float64) {
	TransfersTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		TransferAmount.Observe(amount)
	}
}

// ObserveLockWait records how long a transfer waited to acquire its
// ordered pair of account locks.
func ObserveLockWait(d time.Duration) {
	LockWaitDuration.Observe(d.Seconds())
}

// RecordEventPublish increments the publish counter for topic/outcome.
func RecordEventPublish(topic, outcome string) {
	EventsPublishedTotal.WithLabelValues(topic, outcome).Inc()
}
