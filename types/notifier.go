package types

import "context"

// ErrorNotifier is the error-notification channel consumed by the manager.
// Every recoverable error the manager encounters is reported through it,
// tagged with the action that failed and, when known, the partition it
// concerns. Implementations must not block the caller for long; the
// manager invokes this synchronously from the reconciliation loop.
type ErrorNotifier interface {
	NotifyError(ctx context.Context, hostID string, err error, action ActionTag, partitionID string)
}
