package partman

import "context"

// logNotifier is the default ErrorNotifier: it logs every notification
// through the manager's configured Logger. Used when no ErrorNotifier is
// supplied via WithErrorNotifier.
type logNotifier struct {
	logger Logger
}

var _ ErrorNotifier = (*logNotifier)(nil)

func (n *logNotifier) NotifyError(_ context.Context, hostID string, err error, action ActionTag, partitionID string) {
	if partitionID == NoAssociatedPartition {
		n.logger.Error("partition manager error", "host_id", hostID, "action", string(action), "error", err)
		return
	}

	n.logger.Error("partition manager error", "host_id", hostID, "action", string(action), "partition_id", partitionID, "error", err)
}
