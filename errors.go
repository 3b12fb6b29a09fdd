package partman

import "github.com/arloliu/partman/types"

// Re-exported sentinel errors. See the types package for definitions; they
// live there so internal packages can return them without importing the
// root partman package.
var (
	ErrInvalidConfig           = types.ErrInvalidConfig
	ErrLeaseStoreRequired      = types.ErrLeaseStoreRequired
	ErrCheckpointStoreRequired = types.ErrCheckpointStoreRequired
	ErrPartitionSourceRequired = types.ErrPartitionSourceRequired
	ErrPumpSupervisorRequired  = types.ErrPumpSupervisorRequired
	ErrAlreadyStarted          = types.ErrAlreadyStarted
	ErrNotStarted              = types.ErrNotStarted
	ErrInitFailed              = types.ErrInitFailed
	ErrLeaseLost               = types.ErrLeaseLost
	ErrStoreUnavailable        = types.ErrStoreUnavailable
)

// InitError re-exports types.InitError, the error type returned by
// Initialize when a fail-fast startup step fails. It carries the
// ActionTag identifying which step failed.
type InitError = types.InitError
