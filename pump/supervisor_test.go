package pump

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/partman/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePump struct {
	mu      sync.Mutex
	started chan struct{}
	lease   types.Lease
}

func newFakePump() *fakePump {
	return &fakePump{started: make(chan struct{})}
}

func (p *fakePump) Run(ctx context.Context) error {
	close(p.started)
	<-ctx.Done()
	return nil
}

func (p *fakePump) UpdateLease(lease types.Lease) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lease = lease
}

func (p *fakePump) Lease() types.Lease {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lease
}

func TestSupervisor_AddPumpStartsAndIsIdempotent(t *testing.T) {
	var created int
	fp := newFakePump()
	factory := func(partitionID string, lease types.Lease) (Pump, error) {
		created++
		return fp, nil
	}

	sup := NewSupervisor(factory)
	ctx := context.Background()

	require.NoError(t, sup.AddPump(ctx, "p0", types.Lease{PartitionID: "p0", Owner: "host-a"}))
	select {
	case <-fp.started:
	case <-time.After(time.Second):
		t.Fatal("pump never started")
	}

	require.NoError(t, sup.AddPump(ctx, "p0", types.Lease{PartitionID: "p0", Owner: "host-a", Token: 2}))
	assert.Equal(t, 1, created, "AddPump on a running pump must not construct a second one")
	assert.Equal(t, uint64(2), fp.Lease().Token, "AddPump must refresh the lease on an existing pump")
}

func TestSupervisor_RemovePumpWaitsForCompletion(t *testing.T) {
	fp := newFakePump()
	factory := func(partitionID string, lease types.Lease) (Pump, error) { return fp, nil }
	sup := NewSupervisor(factory)
	ctx := context.Background()

	require.NoError(t, sup.AddPump(ctx, "p0", types.Lease{PartitionID: "p0"}))
	<-fp.started

	handle := sup.RemovePump(ctx, "p0", types.LeaseLost)
	require.NotNil(t, handle)

	select {
	case <-handle:
	case <-time.After(time.Second):
		t.Fatal("removal handle never closed")
	}
}

func TestSupervisor_RemovePumpOnMissingPumpIsNoop(t *testing.T) {
	sup := NewSupervisor(func(partitionID string, lease types.Lease) (Pump, error) {
		t.Fatal("factory should not be called")
		return nil, nil
	})

	handle := sup.RemovePump(context.Background(), "missing", types.LeaseLost)
	assert.Nil(t, handle)
}

func TestSupervisor_RemoveAllPumpsReturnsOneHandlePerRunningPump(t *testing.T) {
	pumps := map[string]*fakePump{"p0": newFakePump(), "p1": newFakePump(), "p2": newFakePump()}
	factory := func(partitionID string, lease types.Lease) (Pump, error) { return pumps[partitionID], nil }
	sup := NewSupervisor(factory)
	ctx := context.Background()

	for id := range pumps {
		require.NoError(t, sup.AddPump(ctx, id, types.Lease{PartitionID: id}))
	}
	for _, fp := range pumps {
		<-fp.started
	}

	handles := sup.RemoveAllPumps(ctx, types.ManagerShutdown)
	require.Len(t, handles, 3)

	for _, h := range handles {
		select {
		case <-h:
		case <-time.After(time.Second):
			t.Fatal("a removal handle never closed")
		}
	}
}
