package partman

import (
	"github.com/arloliu/partman/store"
	"github.com/nats-io/nats.go/jetstream"
)

// NewNATSStores constructs the bundled JetStream KV-backed LeaseStore and
// CheckpointStore from cfg's bucket names and lease timing fields. Most
// callers wiring this library against NATS JetStream should use this rather
// than constructing store.NATSLeaseStore/store.NATSCheckpointStore directly.
func NewNATSStores(js jetstream.JetStream, cfg Config) (LeaseStore, CheckpointStore) {
	leaseStore := store.NewNATSLeaseStore(js, cfg.LeaseBucket, cfg.LeaseDuration, cfg.RenewInterval)
	checkpointStore := store.NewNATSCheckpointStore(js, cfg.CheckpointBucket)

	return leaseStore, checkpointStore
}
