package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/partman/internal/natsutil"
	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSCheckpointStore implements types.CheckpointStore over a JetStream
// KeyValue bucket. Its contract is structurally parallel to
// NATSLeaseStore for existence and per-partition creation; the manager
// never inspects checkpoint contents, so records are stored as empty
// values used only as existence markers.
type NATSCheckpointStore struct {
	js         jetstream.JetStream
	bucketName string

	mu sync.RWMutex
	kv jetstream.KeyValue
}

var _ types.CheckpointStore = (*NATSCheckpointStore)(nil)

// NewNATSCheckpointStore creates a checkpoint store backed by bucketName.
func NewNATSCheckpointStore(js jetstream.JetStream, bucketName string) *NATSCheckpointStore {
	return &NATSCheckpointStore{js: js, bucketName: bucketName}
}

// Exists reports whether the bucket has already been provisioned.
func (s *NATSCheckpointStore) Exists(ctx context.Context) (bool, error) {
	kv, err := s.js.KeyValue(ctx, s.bucketName)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.wrap(err)
	}
	s.setKV(kv)

	return true, nil
}

// EnsureExists provisions the bucket if it does not already exist.
func (s *NATSCheckpointStore) EnsureExists(ctx context.Context) error {
	kv, err := s.js.KeyValue(ctx, s.bucketName)
	if err == nil {
		s.setKV(kv)
		return nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return s.wrap(err)
	}

	kv, err = s.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: s.bucketName})
	if errors.Is(err, jetstream.ErrBucketExists) {
		kv, err = s.js.KeyValue(ctx, s.bucketName)
	}
	if err != nil {
		return s.wrap(err)
	}
	s.setKV(kv)

	return nil
}

// EnsureCheckpoint creates an empty checkpoint record for partitionID if
// absent.
func (s *NATSCheckpointStore) EnsureCheckpoint(ctx context.Context, partitionID string) error {
	kv := s.getKV()
	if kv == nil {
		return types.ErrStoreUnavailable
	}

	_, err := kv.Create(ctx, partitionID, []byte{})
	if errors.Is(err, jetstream.ErrKeyExists) {
		return nil
	}
	if err != nil {
		return s.wrap(err)
	}

	return nil
}

func (s *NATSCheckpointStore) getKV() jetstream.KeyValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.kv
}

func (s *NATSCheckpointStore) setKV(kv jetstream.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv = kv
}

func (s *NATSCheckpointStore) wrap(err error) error {
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	return err
}
