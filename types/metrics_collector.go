package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations must be non-blocking and safe for concurrent use; methods
// are called from the goroutine that calls Initialize, the reconciliation
// loop goroutine, or a pump goroutine.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ManagerMetrics
	LeaseMetrics
	PumpMetrics
	BalancerMetrics
}

// ManagerMetrics defines metrics for manager lifecycle operations.
type ManagerMetrics interface {
	// RecordStateTransition records a manager state transition event.
	RecordStateTransition(from, to State, duration float64)

	// RecordInitFailure records a fatal initialization failure tagged by
	// the action that failed.
	RecordInitFailure(action ActionTag)

	// RecordIterationDuration records the wall-clock time one reconciliation
	// loop iteration took, in seconds.
	RecordIterationDuration(duration float64)
}

// LeaseMetrics defines metrics for lease acquisition and renewal.
type LeaseMetrics interface {
	// RecordLeaseAcquired records a successful acquire, distinguishing a
	// routine acquire of an expired lease from a steal.
	RecordLeaseAcquired(stolen bool)

	// RecordLeaseRenewed records the outcome of a renew attempt.
	RecordLeaseRenewed(success bool)

	// RecordLeaseError records a per-lease acquire/renew failure tagged by
	// action.
	RecordLeaseError(action ActionTag)

	// RecordSelfOwnedCount sets the current self-owned lease count (gauge).
	RecordSelfOwnedCount(count int)
}

// PumpMetrics defines metrics for pump lifecycle operations.
type PumpMetrics interface {
	// RecordPumpStarted records a pump being created for a partition.
	RecordPumpStarted(partitionID string)

	// RecordPumpStopped records a pump being torn down, tagged by the
	// reason for termination.
	RecordPumpStopped(partitionID string, reason TerminationReason)

	// RecordRunningPumps sets the current running pump count (gauge).
	RecordRunningPumps(count int)
}

// BalancerMetrics defines metrics for the load-balancing decision.
type BalancerMetrics interface {
	// RecordStealAttempt records a steal decision, and whether the
	// subsequent acquire succeeded.
	RecordStealAttempt(succeeded bool)
}
