package types

import (
	"context"
	"time"
)

// LeaseStore persists one lease record per partition in an external store
// whose only primitives are compare-and-set acquisition, renewal, and
// enumeration. Implementations must guarantee that at most one host holds a
// non-expired lease for a given partition at any instant.
type LeaseStore interface {
	// Exists reports whether the backing store has already been provisioned.
	Exists(ctx context.Context) (bool, error)

	// EnsureExists provisions the backing store. Idempotent: calling it when
	// the store already exists is not an error.
	EnsureExists(ctx context.Context) error

	// EnsureLease creates a lease record for partitionID if one is not
	// already present. Idempotent.
	EnsureLease(ctx context.Context, partitionID string) error

	// AllLeases enumerates the current lease record for every known
	// partition. Each result carries its own error so a single bad record
	// does not fail the whole enumeration.
	AllLeases(ctx context.Context) ([]LeaseFetchResult, error)

	// Acquire attempts to take ownership of lease.PartitionID on behalf of
	// lease.Owner. It reports true when the caller now owns the lease, false
	// when a concurrent host won the race. It never returns true alongside
	// a non-nil error; a non-nil error indicates a genuine store failure.
	Acquire(ctx context.Context, lease Lease) (bool, error)

	// Renew attempts to extend a lease the caller believes it currently
	// owns, keyed on lease.Token. It reports true when the renewal
	// succeeded, false when the lease was lost to another host.
	Renew(ctx context.Context, lease Lease) (bool, error)

	// RenewInterval is the cadence at which the reconciliation loop should
	// iterate and renew self-owned leases. Must be strictly less than the
	// store's own lease duration; this is a precondition the store is
	// responsible for upholding, not something the caller verifies.
	RenewInterval() time.Duration
}
