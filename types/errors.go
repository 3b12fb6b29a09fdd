package types

import "errors"

// Sentinel errors for the partman library.
//
// These provide type-safe error checking using errors.Is. Components wrap
// external errors with context using fmt.Errorf("...: %w", err) and reserve
// these sentinels for well-known conditions.

// Manager errors - public API errors returned by Manager.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLeaseStoreRequired is returned when no LeaseStore was configured.
	ErrLeaseStoreRequired = errors.New("lease store is required")

	// ErrCheckpointStoreRequired is returned when no CheckpointStore was configured.
	ErrCheckpointStoreRequired = errors.New("checkpoint store is required")

	// ErrPartitionSourceRequired is returned when no PartitionSource was configured.
	ErrPartitionSourceRequired = errors.New("partition source is required")

	// ErrPumpSupervisorRequired is returned when no PumpSupervisor was configured.
	ErrPumpSupervisorRequired = errors.New("pump supervisor is required")

	// ErrAlreadyStarted is returned when Initialize is called on an already running manager.
	ErrAlreadyStarted = errors.New("manager already started")

	// ErrNotStarted is returned when StopPartitions is called before Initialize.
	ErrNotStarted = errors.New("manager not started")

	// ErrInitFailed wraps a fatal initialization failure. Use errors.As with
	// *InitError to recover the action tag and cause.
	ErrInitFailed = errors.New("partition manager initialization failed")
)

// Store errors - errors surfaced by LeaseStore/CheckpointStore implementations.
var (
	// ErrLeaseLost identifies a CAS-based renew or acquire that lost the race
	// to a concurrent host. The LeaseStore interface reports such a loss as
	// `false, nil`, and the bundled NATS store never returns this error; it
	// is exported so bespoke implementations can use it with errors.Is
	// before translating.
	ErrLeaseLost = errors.New("lease lost to a concurrent host")

	// ErrStoreUnavailable indicates a transient connectivity failure talking
	// to the backing store.
	ErrStoreUnavailable = errors.New("lease/checkpoint store unavailable")
)

// InitError is a fatal initialization failure, carrying the originating
// cause and the action tag identifying which step of §4.1 failed.
type InitError struct {
	Action ActionTag
	Cause  error
}

func (e *InitError) Error() string {
	return string(e.Action) + ": " + e.Cause.Error()
}

func (e *InitError) Unwrap() error {
	return e.Cause
}
