/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package metrics defines the instruments recorded around ledger calls.
package metrics

import (
	"github.com/go-kit/kit/metrics"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "assetgw"
	subsystem = "gateway"
)

// Label values for the transaction counters' outcome label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the instruments recorded by the HTTP facade around ledger
// calls. Counters are labeled by chaincode function and outcome; the
// duration histogram is additionally useful for watching the deadline
// categories separately since each function maps to one category.
type Metrics struct {
	TransactionsEvaluated metrics.Counter
	TransactionsSubmitted metrics.Counter
	CommitFailures        metrics.Counter
	CallDuration          metrics.Histogram
}

// New creates the instruments and registers them with the given registerer.
// Tests pass a fresh prometheus.NewRegistry to avoid cross-test collisions.
func New(registerer prometheus.Registerer) *Metrics {
	evaluated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "transactions_evaluated_total",
		Help:      "Number of evaluate transactions issued, by chaincode function and outcome.",
	}, []string{"function", "outcome"})

	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "transactions_submitted_total",
		Help:      "Number of submit transactions issued, by chaincode function and outcome.",
	}, []string{"function", "outcome"})

	commitFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "commit_failures_total",
		Help:      "Number of submitted transactions that failed validation, by chaincode function.",
	}, []string{"function"})

	callDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "call_duration_seconds",
		Help:      "Ledger call latency in seconds, by chaincode function.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 15, 60},
	}, []string{"function"})

	registerer.MustRegister(evaluated, submitted, commitFailures, callDuration)

	return &Metrics{
		TransactionsEvaluated: kitprom.NewCounter(evaluated),
		TransactionsSubmitted: kitprom.NewCounter(submitted),
		CommitFailures:        kitprom.NewCounter(commitFailures),
		CallDuration:          kitprom.NewHistogram(callDuration),
	}
}
