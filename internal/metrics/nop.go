package metrics

import "github.com/arloliu/partman/types"

// NopMetrics implements a no-op MetricsCollector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used. PrometheusCollector embeds this so it only needs to
// override the metrics it actually records.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_, _ types.State, _ float64) {}

// RecordInitFailure discards the init failure metric.
func (n *NopMetrics) RecordInitFailure(_ types.ActionTag) {}

// RecordIterationDuration discards the iteration duration metric.
func (n *NopMetrics) RecordIterationDuration(_ float64) {}

// RecordLeaseAcquired discards the lease acquired metric.
func (n *NopMetrics) RecordLeaseAcquired(_ bool) {}

// RecordLeaseRenewed discards the lease renewed metric.
func (n *NopMetrics) RecordLeaseRenewed(_ bool) {}

// RecordLeaseError discards the lease error metric.
func (n *NopMetrics) RecordLeaseError(_ types.ActionTag) {}

// RecordSelfOwnedCount discards the self-owned count metric.
func (n *NopMetrics) RecordSelfOwnedCount(_ int) {}

// RecordPumpStarted discards the pump started metric.
func (n *NopMetrics) RecordPumpStarted(_ string) {}

// RecordPumpStopped discards the pump stopped metric.
func (n *NopMetrics) RecordPumpStopped(_ string, _ types.TerminationReason) {}

// RecordRunningPumps discards the running pumps metric.
func (n *NopMetrics) RecordRunningPumps(_ int) {}

// RecordStealAttempt discards the steal attempt metric.
func (n *NopMetrics) RecordStealAttempt(_ bool) {}
