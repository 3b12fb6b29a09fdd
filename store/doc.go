// Package store provides NATS JetStream KeyValue-backed implementations of
// types.LeaseStore and types.CheckpointStore.
//
// One JetStream KV bucket holds one key per partition. A lease record is a
// JSON-encoded owner + expiry pair; the KV entry's revision doubles as the
// opaque CAS token spec.md §3 requires. Acquire and renew are implemented
// with jetstream.KeyValue.Create (first-writer-wins) and
// jetstream.KeyValue.Update (revision-gated compare-and-set), the same
// primitives a NATS-backed leader election uses to hand off a single seat.
package store
