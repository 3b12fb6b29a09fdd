package types

import "context"

// TerminationReason explains why a pump was removed.
type TerminationReason int

const (
	// LeaseLost indicates the host observed it no longer owns the lease.
	LeaseLost TerminationReason = iota

	// ManagerShutdown indicates the manager is shutting down.
	ManagerShutdown
)

// String returns the human-readable termination reason.
func (r TerminationReason) String() string {
	switch r {
	case LeaseLost:
		return "LeaseLost"
	case ManagerShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// PumpSupervisor owns the set of running per-partition workers ("pumps").
// It must be internally idempotent: AddPump on an already-running pump
// refreshes its lease rather than starting a second one, and RemovePump on
// a partition with no running pump is a no-op.
type PumpSupervisor interface {
	// AddPump ensures a pump is running for partitionID bound to lease. If a
	// pump already exists it atomically swaps in the new lease so the pump's
	// renewal timestamp is refreshed. Nothing is observable to the caller
	// beyond error return.
	AddPump(ctx context.Context, partitionID string, lease Lease) error

	// RemovePump tears down the pump for partitionID, if any. It returns a
	// channel that is closed once the pump has fully released its
	// subscriber and it is safe to recreate one for the same partition, or
	// nil if no pump was running.
	RemovePump(ctx context.Context, partitionID string, reason TerminationReason) <-chan struct{}

	// RemoveAllPumps tears down every running pump, returning one completion
	// handle per pump that was running, in no particular order.
	RemoveAllPumps(ctx context.Context, reason TerminationReason) []<-chan struct{}
}
