package types

import "time"

// Lease is the unit of ownership over one partition.
//
// PartitionID is opaque and stable for the process lifetime. Owner is the
// host identity currently holding the lease, mutable across acquisitions.
// ExpiresAt is the wall-clock instant the store considers the lease expired;
// it is derived by the store, never computed locally. Token is whatever
// opaque value the store needs to validate a subsequent renew or acquire
// against this exact version of the record (a NATS JetStream KV revision,
// for the bundled store implementation).
type Lease struct {
	PartitionID string
	Owner       string
	ExpiresAt   time.Time
	Token       uint64
}

// IsExpired reports whether the lease is expired as of now.
func (l Lease) IsExpired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// LeaseFetchResult is one entry of a lease store enumeration. Each entry
// carries its own error so that one bad record does not fail the entire
// enumeration; per spec.md §6, get_all_leases may return futures that fail
// independently.
type LeaseFetchResult struct {
	Lease Lease
	Err   error
}
