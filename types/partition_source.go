package types

import "context"

// PartitionSource supplies the immutable set of partition ids the manager
// coordinates over. ListPartitions is called exactly once, during
// initialization, and its result is cached for the process lifetime; the
// manager does not react to partition-count changes at runtime.
type PartitionSource interface {
	ListPartitions(ctx context.Context) ([]string, error)
}
