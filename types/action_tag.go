package types

// ActionTag identifies which logical operation failed when an error is
// reported through the error-notification channel. Action tags are a fixed
// closed set and form part of the stable interface.
type ActionTag string

const (
	// ActionCreatingLeaseStore tags failures ensuring the lease store exists.
	ActionCreatingLeaseStore ActionTag = "CreatingLeaseStore"

	// ActionCreatingLease tags failures ensuring a per-partition lease record exists.
	ActionCreatingLease ActionTag = "CreatingLease"

	// ActionCreatingCheckpointStore tags failures ensuring the checkpoint store exists.
	ActionCreatingCheckpointStore ActionTag = "CreatingCheckpointStore"

	// ActionCreatingCheckpoint tags failures ensuring a per-partition checkpoint record exists.
	ActionCreatingCheckpoint ActionTag = "CreatingCheckpoint"

	// ActionCheckingLeases tags per-lease acquire/renew failures during the reconciliation loop.
	ActionCheckingLeases ActionTag = "CheckingLeases"

	// ActionStealingLease tags a failed steal-acquire attempt.
	ActionStealingLease ActionTag = "StealingLease"

	// ActionPartitionManagerMainLoop tags an unhandled exception escaping the loop.
	ActionPartitionManagerMainLoop ActionTag = "PartitionManagerMainLoop"

	// ActionPartitionManagerCleanup tags a failure awaiting a pump's shutdown handle.
	ActionPartitionManagerCleanup ActionTag = "PartitionManagerCleanup"
)

// NoAssociatedPartition is the sentinel partition id used when an error
// reported through the notification channel is not associated with any
// specific partition.
const NoAssociatedPartition = ""
