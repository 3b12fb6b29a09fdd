package store_test

import (
	"testing"
	"time"

	"github.com/arloliu/partman/store"
	"github.com/arloliu/partman/types"
	partest "github.com/arloliu/partman/testing"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func newLeaseStore(t *testing.T, leaseDuration, renewInterval time.Duration) *store.NATSLeaseStore {
	t.Helper()
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	return store.NewNATSLeaseStore(js, "test-leases", leaseDuration, renewInterval)
}

func TestNATSLeaseStore_ExistsAndEnsureExists(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)

	exists, err := ls.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, ls.EnsureExists(ctx))
	require.NoError(t, ls.EnsureExists(ctx)) // idempotent

	exists, err = ls.Exists(ctx)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestNATSLeaseStore_EnsureLeaseIsIdempotent(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)
	require.NoError(t, ls.EnsureExists(ctx))

	require.NoError(t, ls.EnsureLease(ctx, "p0"))
	require.NoError(t, ls.EnsureLease(ctx, "p0"))

	leases, err := ls.AllLeases(ctx)
	require.NoError(t, err)
	require.Len(t, leases, 1)
	require.NoError(t, leases[0].Err)
	require.Equal(t, "p0", leases[0].Lease.PartitionID)
}

func TestNATSLeaseStore_AcquireFreshLease(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)
	require.NoError(t, ls.EnsureExists(ctx))
	require.NoError(t, ls.EnsureLease(ctx, "p0"))

	ok, err := ls.Acquire(ctx, types.Lease{PartitionID: "p0", Owner: "host-a"})
	require.NoError(t, err)
	require.True(t, ok)

	leases, err := ls.AllLeases(ctx)
	require.NoError(t, err)
	require.Equal(t, "host-a", leases[0].Lease.Owner)
}

func TestNATSLeaseStore_AcquireFailsWhenAlreadyOwned(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)
	require.NoError(t, ls.EnsureExists(ctx))
	require.NoError(t, ls.EnsureLease(ctx, "p0"))

	ok, err := ls.Acquire(ctx, types.Lease{PartitionID: "p0", Owner: "host-a"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ls.Acquire(ctx, types.Lease{PartitionID: "p0", Owner: "host-b"})
	require.NoError(t, err)
	require.False(t, ok, "acquire must lose the race against a live owner")
}

func TestNATSLeaseStore_RenewSucceedsWithCorrectToken(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)
	require.NoError(t, ls.EnsureExists(ctx))
	require.NoError(t, ls.EnsureLease(ctx, "p0"))

	ok, err := ls.Acquire(ctx, types.Lease{PartitionID: "p0", Owner: "host-a"})
	require.NoError(t, err)
	require.True(t, ok)

	leases, err := ls.AllLeases(ctx)
	require.NoError(t, err)
	self := leases[0].Lease

	ok, err = ls.Renew(ctx, self)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNATSLeaseStore_RenewFailsAfterLeaseStolen(t *testing.T) {
	ctx := t.Context()
	ls := newLeaseStore(t, time.Minute, time.Second)
	require.NoError(t, ls.EnsureExists(ctx))
	require.NoError(t, ls.EnsureLease(ctx, "p0"))

	require.NoError(t, ls.EnsureLease(ctx, "p0"))
	leasesBefore, err := ls.AllLeases(ctx)
	require.NoError(t, err)
	staleView := leasesBefore[0].Lease

	ok, err := ls.Acquire(ctx, types.Lease{PartitionID: "p0", Owner: "host-a"})
	require.NoError(t, err)
	require.True(t, ok)

	// staleView.Token now refers to a superseded revision, simulating a
	// concurrent host winning the race between our last snapshot and renew.
	ok, err = ls.Renew(ctx, types.Lease{PartitionID: "p0", Owner: "host-a", Token: staleView.Token})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNATSLeaseStore_RenewIntervalReturnsConfiguredValue(t *testing.T) {
	ls := newLeaseStore(t, time.Minute, 7*time.Second)
	require.Equal(t, 7*time.Second, ls.RenewInterval())
}
