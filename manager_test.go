package partman_test

import (
	"context"
	"testing"
	"time"

	"github.com/arloliu/partman"
	"github.com/arloliu/partman/pump"
	"github.com/arloliu/partman/source"
	partest "github.com/arloliu/partman/testing"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPump is a minimal pump.Pump that runs until its context is
// cancelled, standing in for a real per-partition subscriber across these
// scenario tests.
type blockingPump struct{}

func (blockingPump) Run(ctx context.Context) error {
	<-ctx.Done()

	return nil
}

func newSupervisor() *pump.Supervisor {
	return pump.NewSupervisor(func(_ string, _ partman.Lease) (pump.Pump, error) {
		return blockingPump{}, nil
	})
}

func newHostManager(t *testing.T, js jetstream.JetStream, hostID, leaseBucket string, partitionIDs []string) *partman.Manager {
	t.Helper()

	cfg := partman.TestConfig()
	cfg.HostID = hostID
	cfg.LeaseBucket = leaseBucket
	cfg.CheckpointBucket = leaseBucket + "-checkpoints"

	leaseStore, checkpointStore := partman.NewNATSStores(js, cfg)
	src := source.NewStatic(partitionIDs)

	mgr, err := partman.NewManager(&cfg, leaseStore, checkpointStore, src, newSupervisor())
	require.NoError(t, err)

	return mgr
}

func TestNewManager_ValidatesRequiredDependencies(t *testing.T) {
	_, err := partman.NewManager(nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, partman.ErrInvalidConfig)

	cfg := partman.TestConfig()
	_, err = partman.NewManager(&cfg, nil, nil, nil, nil)
	assert.ErrorIs(t, err, partman.ErrLeaseStoreRequired)
}

func TestManager_ColdStartSingleHostFourPartitions(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	mgr := newHostManager(t, js, "host-a", "cold-start-leases", []string{"p0", "p1", "p2", "p3"})

	require.NoError(t, mgr.Initialize(t.Context()))
	assert.Equal(t, partman.StateRunning, mgr.State())

	require.Eventually(t, func() bool {
		return len(mgr.SelfOwnedPartitions()) == 4
	}, 3*time.Second, 20*time.Millisecond, "expected all 4 partitions to be self-owned after cold start")

	require.NoError(t, <-mgr.StopPartitions())
	assert.Equal(t, partman.StateStopped, mgr.State())
}

func TestManager_TwoHostsConverge(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	partitionIDs := []string{"p0", "p1", "p2", "p3"}

	hostA := newHostManager(t, js, "host-a", "converge-leases", partitionIDs)
	require.NoError(t, hostA.Initialize(t.Context()))
	require.Eventually(t, func() bool {
		return len(hostA.SelfOwnedPartitions()) == 4
	}, 3*time.Second, 20*time.Millisecond)

	hostB := newHostManager(t, js, "host-b", "converge-leases", partitionIDs)
	require.NoError(t, hostB.Initialize(t.Context()))

	require.Eventually(t, func() bool {
		return len(hostA.SelfOwnedPartitions()) == 2 && len(hostB.SelfOwnedPartitions()) == 2
	}, 5*time.Second, 20*time.Millisecond, "expected two hosts to converge to a 2/2 split")

	require.NoError(t, <-hostA.StopPartitions())
	require.NoError(t, <-hostB.StopPartitions())
}

func TestManager_UnevenSplitHaltsAtGapOne(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	partitionIDs := []string{"p0", "p1", "p2", "p3", "p4"}

	hostA := newHostManager(t, js, "host-a", "uneven-leases", partitionIDs)
	require.NoError(t, hostA.Initialize(t.Context()))
	require.Eventually(t, func() bool {
		return len(hostA.SelfOwnedPartitions()) == 5
	}, 3*time.Second, 20*time.Millisecond)

	hostB := newHostManager(t, js, "host-b", "uneven-leases", partitionIDs)
	require.NoError(t, hostB.Initialize(t.Context()))

	require.Eventually(t, func() bool {
		a, b := len(hostA.SelfOwnedPartitions()), len(hostB.SelfOwnedPartitions())

		return a+b == 5 && (a == 3 || a == 2) && (b == 3 || b == 2) && a != b
	}, 5*time.Second, 20*time.Millisecond, "expected a 3/2 split, never converging past a gap of 1")

	require.NoError(t, <-hostA.StopPartitions())
	require.NoError(t, <-hostB.StopPartitions())
}

func TestManager_LostRenewalTearsDownPump(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	cfg := partman.TestConfig()
	cfg.HostID = "host-a"
	cfg.LeaseBucket = "lost-renewal-leases"
	cfg.CheckpointBucket = "lost-renewal-checkpoints"

	leaseStore, checkpointStore := partman.NewNATSStores(js, cfg)
	src := source.NewStatic([]string{"p0"})

	mgr, err := partman.NewManager(&cfg, leaseStore, checkpointStore, src, newSupervisor())
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize(t.Context()))

	require.Eventually(t, func() bool {
		return len(mgr.SelfOwnedPartitions()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	// Externally overwrite the lease record with another owner and a
	// far-future expiry, simulating a concurrent host that took the lease
	// between two iterations: the next snapshot sees p0 owned by host-x, so
	// the manager records it as owned by others and removes its pump.
	kv, err := js.KeyValue(t.Context(), cfg.LeaseBucket)
	require.NoError(t, err)
	_, err = kv.Put(t.Context(), "p0", []byte(`{"owner":"host-x","expires_at":"2999-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(mgr.SelfOwnedPartitions()) == 0
	}, 2*time.Second, 20*time.Millisecond, "expected the lost lease to be torn down")

	require.NoError(t, <-mgr.StopPartitions())
}

func TestManager_InitializeTwiceReturnsErrAlreadyStarted(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	mgr := newHostManager(t, js, "host-a", "double-init-leases", []string{"p0"})
	require.NoError(t, mgr.Initialize(t.Context()))

	err = mgr.Initialize(t.Context())
	assert.ErrorIs(t, err, partman.ErrAlreadyStarted)

	require.NoError(t, <-mgr.StopPartitions())
}

func TestManager_StopPartitionsBeforeInitializeReturnsErrNotStarted(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	mgr := newHostManager(t, js, "host-a", "never-started-leases", []string{"p0"})

	err = <-mgr.StopPartitions()
	assert.ErrorIs(t, err, partman.ErrNotStarted)
}
