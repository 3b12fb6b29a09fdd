package types

import "context"

// CheckpointStore persists one checkpoint per partition. Its contract is
// structurally parallel to LeaseStore for existence and per-partition
// creation, but otherwise opaque to the partition manager: the manager
// never reads or writes checkpoint contents, only ensures the record
// exists during initialization.
type CheckpointStore interface {
	// Exists reports whether the backing store has already been provisioned.
	Exists(ctx context.Context) (bool, error)

	// EnsureExists provisions the backing store. Idempotent.
	EnsureExists(ctx context.Context) error

	// EnsureCheckpoint creates a checkpoint record for partitionID if one is
	// not already present. Idempotent.
	EnsureCheckpoint(ctx context.Context, partitionID string) error
}
