// Package metrics provides application-level metrics collection using
// atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds orchestration metrics using atomic counters for thread
// safety.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Invocation pipeline metrics
	simulationsTotal   atomic.Int64
	simulationFailures atomic.Int64
	submissionsTotal   atomic.Int64
	submissionErrors   atomic.Int64
	confirmations      atomic.Int64
	pollTimeouts       atomic.Int64

	// Signer bridge metrics
	signerPrompts    atomic.Int64
	signerRejections atomic.Int64

	// Balance cache metrics
	balanceRefreshes      atomic.Int64
	balanceRefreshErrors  atomic.Int64
	balanceCacheFallbacks atomic.Int64
}

// Global is the shared metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records an RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordSimulation records a dry run and whether it reported failure.
func (m *Metrics) RecordSimulation(ok bool) {
	m.simulationsTotal.Add(1)
	if !ok {
		m.simulationFailures.Add(1)
	}
}

// RecordSubmission records a submission attempt.
func (m *Metrics) RecordSubmission(err error) {
	m.submissionsTotal.Add(1)
	if err != nil {
		m.submissionErrors.Add(1)
	}
}

// RecordConfirmation records a confirmed submission.
func (m *Metrics) RecordConfirmation() {
	m.confirmations.Add(1)
}

// RecordPollTimeout records a confirmation that hit the poll ceiling.
func (m *Metrics) RecordPollTimeout() {
	m.pollTimeouts.Add(1)
}

// RecordSignerPrompt records a signing request sent to the bridge.
func (m *Metrics) RecordSignerPrompt(rejected bool) {
	m.signerPrompts.Add(1)
	if rejected {
		m.signerRejections.Add(1)
	}
}

// RecordBalanceRefresh records a balance refresh attempt. A failed
// refresh keeps the prior cached value, counted as a fallback.
func (m *Metrics) RecordBalanceRefresh(err error) {
	m.balanceRefreshes.Add(1)
	if err != nil {
		m.balanceRefreshErrors.Add(1)
		m.balanceCacheFallbacks.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal         int64
	RPCErrorsTotal        int64
	RPCLatencyNanos       int64
	SimulationsTotal      int64
	SimulationFailures    int64
	SubmissionsTotal      int64
	SubmissionErrors      int64
	Confirmations         int64
	PollTimeouts          int64
	SignerPrompts         int64
	SignerRejections      int64
	BalanceRefreshes      int64
	BalanceRefreshErrors  int64
	BalanceCacheFallbacks int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:         m.rpcCallsTotal.Load(),
		RPCErrorsTotal:        m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:       m.rpcLatencyNanos.Load(),
		SimulationsTotal:      m.simulationsTotal.Load(),
		SimulationFailures:    m.simulationFailures.Load(),
		SubmissionsTotal:      m.submissionsTotal.Load(),
		SubmissionErrors:      m.submissionErrors.Load(),
		Confirmations:         m.confirmations.Load(),
		PollTimeouts:          m.pollTimeouts.Load(),
		SignerPrompts:         m.signerPrompts.Load(),
		SignerRejections:      m.signerRejections.Load(),
		BalanceRefreshes:      m.balanceRefreshes.Load(),
		BalanceRefreshErrors:  m.balanceRefreshErrors.Load(),
		BalanceCacheFallbacks: m.balanceCacheFallbacks.Load(),
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}
