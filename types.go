package partman

import "github.com/arloliu/partman/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces via type aliases, so callers get partman.Lease, partman.State,
// etc. without importing the types subpackage directly. internal packages
// depend on types instead of the root partman package, avoiding an import
// cycle.
type (
	Lease             = types.Lease
	LeaseFetchResult  = types.LeaseFetchResult
	State             = types.State
	ActionTag         = types.ActionTag
	TerminationReason = types.TerminationReason
)

// Re-export interfaces from the internal types package for convenience.
type (
	LeaseStore       = types.LeaseStore
	CheckpointStore  = types.CheckpointStore
	PartitionSource  = types.PartitionSource
	PumpSupervisor   = types.PumpSupervisor
	ErrorNotifier    = types.ErrorNotifier
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export State constants from the internal types package.
const (
	StateInit         = types.StateInit
	StateInitializing = types.StateInitializing
	StateRunning      = types.StateRunning
	StateStopping     = types.StateStopping
	StateStopped      = types.StateStopped
)

// Re-export TerminationReason constants.
const (
	LeaseLost       = types.LeaseLost
	ManagerShutdown = types.ManagerShutdown
)

// Re-export ActionTag constants.
const (
	ActionCreatingLeaseStore       = types.ActionCreatingLeaseStore
	ActionCreatingLease            = types.ActionCreatingLease
	ActionCreatingCheckpointStore  = types.ActionCreatingCheckpointStore
	ActionCreatingCheckpoint       = types.ActionCreatingCheckpoint
	ActionCheckingLeases           = types.ActionCheckingLeases
	ActionStealingLease            = types.ActionStealingLease
	ActionPartitionManagerMainLoop = types.ActionPartitionManagerMainLoop
	ActionPartitionManagerCleanup  = types.ActionPartitionManagerCleanup
	NoAssociatedPartition          = types.NoAssociatedPartition
)
