package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/partman/internal/natsutil"
	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSLeaseStore implements types.LeaseStore over a JetStream KeyValue
// bucket. It is safe for concurrent use, though the manager never calls it
// concurrently within one reconciliation loop iteration by design.
type NATSLeaseStore struct {
	js            jetstream.JetStream
	bucketName    string
	leaseDuration time.Duration
	renewInterval time.Duration

	mu sync.RWMutex
	kv jetstream.KeyValue
}

var _ types.LeaseStore = (*NATSLeaseStore)(nil)

// leaseRecord is the JSON value stored per partition key.
type leaseRecord struct {
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewNATSLeaseStore creates a lease store backed by bucketName. leaseDuration
// is the wall-clock duration a freshly (re)acquired lease is valid for;
// renewInterval is the cadence RenewInterval reports to the manager and
// must be strictly less than leaseDuration.
func NewNATSLeaseStore(js jetstream.JetStream, bucketName string, leaseDuration, renewInterval time.Duration) *NATSLeaseStore {
	return &NATSLeaseStore{
		js:            js,
		bucketName:    bucketName,
		leaseDuration: leaseDuration,
		renewInterval: renewInterval,
	}
}

// RenewInterval returns the configured renewal cadence.
func (s *NATSLeaseStore) RenewInterval() time.Duration {
	return s.renewInterval
}

// Exists reports whether the bucket has already been provisioned.
func (s *NATSLeaseStore) Exists(ctx context.Context) (bool, error) {
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
func (s *NATSLeaseStore) EnsureExists(ctx context.Context) error {
	kv, err := s.js.KeyValue(ctx, s.bucketName)
	if err == nil {
		s.setKV(kv)
		return nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return s.wrap(err)
	}

	kv, err = s.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: s.bucketName,
		TTL:    s.leaseDuration,
	})
	if errors.Is(err, jetstream.ErrBucketExists) {
		kv, err = s.js.KeyValue(ctx, s.bucketName)
	}
	if err != nil {
		return s.wrap(err)
	}
	s.setKV(kv)

	return nil
}

// EnsureLease creates a lease record for partitionID if absent, initially
// unowned and already expired so the first reconciliation iteration treats
// it as immediately acquirable.
func (s *NATSLeaseStore) EnsureLease(ctx context.Context, partitionID string) error {
	kv := s.getKV()
	if kv == nil {
		return types.ErrStoreUnavailable
	}

	value, err := json.Marshal(leaseRecord{Owner: "", ExpiresAt: time.Time{}})
	if err != nil {
		return err
	}

	_, err = kv.Create(ctx, partitionID, value)
	if errors.Is(err, jetstream.ErrKeyExists) {
		return nil
	}
	if err != nil {
		return s.wrap(err)
	}

	return nil
}

// AllLeases enumerates every partition key in the bucket, decoding each
// entry independently so one malformed record does not fail the whole
// enumeration.
func (s *NATSLeaseStore) AllLeases(ctx context.Context) ([]types.LeaseFetchResult, error) {
	kv := s.getKV()
	if kv == nil {
		return nil, types.ErrStoreUnavailable
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, s.wrap(err)
	}

	results := make([]types.LeaseFetchResult, 0, len(keys))
	for _, key := range keys {
		lease, err := s.fetchOne(ctx, kv, key)
		results = append(results, types.LeaseFetchResult{Lease: lease, Err: err})
	}

	return results, nil
}

func (s *NATSLeaseStore) fetchOne(ctx context.Context, kv jetstream.KeyValue, key string) (types.Lease, error) {
	entry, err := kv.Get(ctx, key)
	if err != nil {
		return types.Lease{PartitionID: key}, s.wrap(err)
	}

	var rec leaseRecord
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return types.Lease{PartitionID: key}, fmt.Errorf("decoding lease record for %q: %w", key, err)
	}

	return types.Lease{
		PartitionID: key,
		Owner:       rec.Owner,
		ExpiresAt:   rec.ExpiresAt,
		Token:       entry.Revision(),
	}, nil
}

// Acquire attempts to take partitionID for lease.Owner. It always reads the
// current record first: if the key is missing it races to create it; if
// present it only overwrites when the existing record is expired or
// unowned, gated on the observed revision so a concurrent winner is
// detected rather than silently overwritten.
func (s *NATSLeaseStore) Acquire(ctx context.Context, lease types.Lease) (bool, error) {
	kv := s.getKV()
	if kv == nil {
		return false, types.ErrStoreUnavailable
	}

	value, err := json.Marshal(leaseRecord{Owner: lease.Owner, ExpiresAt: time.Now().Add(s.leaseDuration)})
	if err != nil {
		return false, err
	}

	entry, err := kv.Get(ctx, lease.PartitionID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		_, err = kv.Create(ctx, lease.PartitionID, value)
		if errors.Is(err, jetstream.ErrKeyExists) {
			return false, nil
		}
		if err != nil {
			return false, s.wrap(err)
		}
		return true, nil
	}
	if err != nil {
		return false, s.wrap(err)
	}

	var rec leaseRecord
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return false, fmt.Errorf("decoding lease record for %q: %w", lease.PartitionID, err)
	}
	if rec.Owner != "" && time.Now().Before(rec.ExpiresAt) {
		return false, nil
	}

	_, err = kv.Update(ctx, lease.PartitionID, value, entry.Revision())
	if err == nil {
		return true, nil
	}
	if natsutil.IsConnectivityError(err) {
		return false, s.wrap(err)
	}

	// Any other Update failure means a concurrent host won the CAS race.
	return false, nil
}

// Renew extends lease, keyed on lease.Token (the revision observed when the
// lease was last fetched). Renewal fails, returning false with no error,
// exactly when another host has already re-created the key.
func (s *NATSLeaseStore) Renew(ctx context.Context, lease types.Lease) (bool, error) {
	kv := s.getKV()
	if kv == nil {
		return false, types.ErrStoreUnavailable
	}

	value, err := json.Marshal(leaseRecord{Owner: lease.Owner, ExpiresAt: time.Now().Add(s.leaseDuration)})
	if err != nil {
		return false, err
	}

	_, err = kv.Update(ctx, lease.PartitionID, value, lease.Token)
	if err == nil {
		return true, nil
	}
	if natsutil.IsConnectivityError(err) {
		return false, s.wrap(err)
	}

	return false, nil
}

func (s *NATSLeaseStore) getKV() jetstream.KeyValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.kv
}

func (s *NATSLeaseStore) setKV(kv jetstream.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kv = kv
}

func (s *NATSLeaseStore) wrap(err error) error {
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	return err
}
