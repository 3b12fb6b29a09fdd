package source

import (
	"context"
	"sync"

	"github.com/arloliu/partman/types"
)

// Static implements types.PartitionSource with a fixed list of partition
// ids. Useful for testing and for deployments where the partition set is
// known at startup rather than discovered from the event-hub runtime.
type Static struct {
	mu         sync.RWMutex
	partitions []string
}

var _ types.PartitionSource = (*Static)(nil)

// NewStatic creates a new static partition source over the given ids.
func NewStatic(partitionIDs []string) *Static {
	s := &Static{}
	s.Update(partitionIDs)

	return s
}

// ListPartitions returns the current list of partition ids.
//
// The manager calls this exactly once, during initialization, and caches
// the result; a later Update has no effect on an already-initialized
// manager. Update exists so tests can construct a fresh manager over a
// different partition count without a new source.
func (s *Static) ListPartitions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.partitions))
	copy(result, s.partitions)

	return result, nil
}

// Update replaces the partition id list.
func (s *Static) Update(partitionIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.partitions = make([]string, len(partitionIDs))
	copy(s.partitions, partitionIDs)
}
