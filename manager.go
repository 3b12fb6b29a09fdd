package partman

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/partman/balancer"
	"github.com/arloliu/partman/internal/logging"
	"github.com/arloliu/partman/internal/metrics"
	"github.com/arloliu/partman/internal/retry"
	"github.com/arloliu/partman/types"
)

// Manager is the partition lease coordinator. It runs a single fail-fast
// initialization phase, then a periodic reconciliation loop that renews
// self-owned leases, acquires expired ones, optionally steals one lease from
// an overloaded host, and reconciles the running pump set to match.
//
// Thread Safety:
//   - Initialize and StopPartitions are safe to call from any goroutine.
//   - The reconciliation loop runs on a single dedicated goroutine; nothing
//     else mutates the lease snapshot or the pump set.
//
// Lifecycle:
//   - Create with NewManager.
//   - Call Initialize to provision the stores and start the loop.
//   - Call StopPartitions for graceful shutdown; await the returned channel.
type Manager struct {
	cfg             Config
	leaseStore      LeaseStore
	checkpointStore CheckpointStore
	source          PartitionSource
	supervisor      PumpSupervisor

	hooks     *types.Hooks
	metrics   MetricsCollector
	logger    Logger
	notifier  ErrorNotifier
	stealFunc func(leasesOwnedByOthers []Lease, selfOwnedCount int) (Lease, bool)

	state atomic.Int32

	partitionIDs      []string
	previousSelfOwned map[string]types.Lease // loop-goroutine-owned, no lock needed

	selfOwnedMu sync.RWMutex
	selfOwned   map[string]types.Lease

	stopOnce sync.Once
	stopCh   chan struct{}
	loopDone chan struct{}
}

// NewManager creates a new Manager. leaseStore, checkpointStore, source, and
// supervisor are required collaborators; see the LeaseStore, CheckpointStore,
// PartitionSource, and PumpSupervisor interfaces.
//
// Example:
//
//	cfg := partman.DefaultConfig()
//	cfg.HostID = "host-a"
//	leaseStore, checkpointStore := partman.NewNATSStores(js, cfg)
//	src := source.NewStatic([]string{"p0", "p1", "p2", "p3"})
//	sup := pump.NewSupervisor(myFactory)
//	mgr, err := partman.NewManager(&cfg, leaseStore, checkpointStore, src, sup)
func NewManager(cfg *Config, leaseStore LeaseStore, checkpointStore CheckpointStore, source PartitionSource, supervisor PumpSupervisor, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if leaseStore == nil {
		return nil, ErrLeaseStoreRequired
	}
	if checkpointStore == nil {
		return nil, ErrCheckpointStoreRequired
	}
	if source == nil {
		return nil, ErrPartitionSourceRequired
	}
	if supervisor == nil {
		return nil, ErrPumpSupervisorRequired
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	notifier := options.notifier
	if notifier == nil {
		notifier = &logNotifier{logger: logger}
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &types.Hooks{}
	}

	stealFunc := options.stealFunc
	if stealFunc == nil {
		stealFunc = balancer.Steal
	}

	m := &Manager{
		cfg:               *cfg,
		leaseStore:        leaseStore,
		checkpointStore:   checkpointStore,
		source:            source,
		supervisor:        supervisor,
		hooks:             hooksInstance,
		metrics:           metricsCollector,
		logger:            logger,
		notifier:          notifier,
		stealFunc:         stealFunc,
		previousSelfOwned: make(map[string]types.Lease),
		selfOwned:         make(map[string]types.Lease),
		stopCh:            make(chan struct{}),
		loopDone:          make(chan struct{}),
	}
	m.state.Store(int32(types.StateInit))

	return m, nil
}

// HostID returns the configured host identity.
func (m *Manager) HostID() string {
	return m.cfg.HostID
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	return types.State(m.state.Load())
}

// SelfOwnedPartitions returns the partition ids this host believed it owned
// as of the end of the most recently completed reconciliation iteration.
func (m *Manager) SelfOwnedPartitions() []string {
	m.selfOwnedMu.RLock()
	defer m.selfOwnedMu.RUnlock()

	ids := make([]string, 0, len(m.selfOwned))
	for id := range m.selfOwned {
		ids = append(ids, id)
	}

	return ids
}

// Initialize performs the §4.1 fail-fast initialization phase — ensuring the
// lease store, per-partition leases, checkpoint store, and per-partition
// checkpoints all exist — then schedules the reconciliation loop and
// returns. It returns ErrAlreadyStarted if called more than once.
//
// A failure at any step aborts initialization entirely: the loop is never
// scheduled, and the returned error wraps ErrInitFailed together with an
// *InitError carrying the action tag identifying which step failed.
func (m *Manager) Initialize(ctx context.Context) error {
	if !m.transitionState(types.StateInit, types.StateInitializing) {
		return ErrAlreadyStarted
	}

	initCtx := ctx
	if m.cfg.InitTimeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, m.cfg.InitTimeout)
		defer cancel()
	}

	if err := m.runInit(initCtx); err != nil {
		m.transitionState(types.StateInitializing, types.StateStopped)
		close(m.loopDone)

		return err
	}

	m.transitionState(types.StateInitializing, types.StateRunning)

	go m.run()

	return nil
}

// runInit implements spec.md §4.1's five ordered, fail-fast steps.
func (m *Manager) runInit(ctx context.Context) error {
	// Step 1: the pump supervisor is instantiated by the caller and injected
	// via NewManager; nothing to do here beyond having validated it non-nil.

	// Step 2: ensure the lease store exists.
	if err := retry.Do(ctx, m.leaseStore.EnsureExists); err != nil {
		return m.initFailure(types.ActionCreatingLeaseStore, err)
	}

	partitionIDs, err := m.source.ListPartitions(ctx)
	if err != nil {
		return m.initFailure(types.ActionCreatingLease, fmt.Errorf("listing partitions: %w", err))
	}
	m.partitionIDs = partitionIDs

	// Step 3: ensure a lease record exists for every partition.
	for _, partitionID := range partitionIDs {
		pid := partitionID
		if err := retry.Do(ctx, func(ctx context.Context) error {
			return m.leaseStore.EnsureLease(ctx, pid)
		}); err != nil {
			return m.initFailure(types.ActionCreatingLease, fmt.Errorf("partition %q: %w", pid, err))
		}
	}

	// Step 4: ensure the checkpoint store exists.
	if err := retry.Do(ctx, m.checkpointStore.EnsureExists); err != nil {
		return m.initFailure(types.ActionCreatingCheckpointStore, err)
	}

	// Step 5: ensure a checkpoint record exists for every partition.
	for _, partitionID := range partitionIDs {
		pid := partitionID
		if err := retry.Do(ctx, func(ctx context.Context) error {
			return m.checkpointStore.EnsureCheckpoint(ctx, pid)
		}); err != nil {
			return m.initFailure(types.ActionCreatingCheckpoint, fmt.Errorf("partition %q: %w", pid, err))
		}
	}

	m.logger.Info("initialization complete", "host_id", m.cfg.HostID, "partition_count", len(partitionIDs))

	return nil
}

func (m *Manager) initFailure(action types.ActionTag, cause error) error {
	m.metrics.RecordInitFailure(action)
	initErr := &types.InitError{Action: action, Cause: cause}
	m.notifier.NotifyError(context.Background(), m.cfg.HostID, initErr, action, types.NoAssociatedPartition)

	return fmt.Errorf("%w: %w", types.ErrInitFailed, initErr)
}

// StopPartitions sets the stop flag and returns a channel that resolves once
// the reconciliation loop has exited and pump cleanup is done. Safe to call
// multiple times; subsequent calls observe the same completion.
func (m *Manager) StopPartitions() <-chan error {
	result := make(chan error, 1)

	if types.State(m.state.Load()) == types.StateInit {
		result <- ErrNotStarted
		close(result)

		return result
	}

	m.stopOnce.Do(func() { close(m.stopCh) })

	go func() {
		<-m.loopDone
		result <- nil
		close(result)
	}()

	return result
}

// run is the reconciliation loop's goroutine body. It always ends by
// invoking cleanup and closing loopDone, whether it exits via the stop flag
// or a recovered panic.
func (m *Manager) run() {
	defer close(m.loopDone)
	defer m.cleanup()
	defer m.recoverPanic()

	for {
		select {
		case <-m.stopCh:
			return
		default:
		}

		start := time.Now()
		m.iterate(context.Background())
		m.metrics.RecordIterationDuration(time.Since(start).Seconds())

		select {
		case <-m.stopCh:
			return
		case <-time.After(m.leaseStore.RenewInterval()):
		}
	}
}

// iterate runs one reconciliation loop iteration per spec.md §4.2.
func (m *Manager) iterate(ctx context.Context) {
	results, err := m.leaseStore.AllLeases(ctx)
	if err != nil {
		m.notifier.NotifyError(ctx, m.cfg.HostID, err, types.ActionCheckingLeases, types.NoAssociatedPartition)
		return
	}

	var ownedBySelf, ownedByOthers []types.Lease

	for _, result := range results {
		if result.Err != nil {
			// Per-lease exceptions omit the lease from this iteration's
			// snapshot entirely; see spec.md §9's open question.
			m.notifier.NotifyError(ctx, m.cfg.HostID, result.Err, types.ActionCheckingLeases, result.Lease.PartitionID)
			m.metrics.RecordLeaseError(types.ActionCheckingLeases)

			continue
		}

		lease := result.Lease

		switch {
		case lease.IsExpired(time.Now()):
			acquired, err := m.leaseStore.Acquire(ctx, types.Lease{PartitionID: lease.PartitionID, Owner: m.cfg.HostID})
			if err != nil {
				m.notifier.NotifyError(ctx, m.cfg.HostID, err, types.ActionCheckingLeases, lease.PartitionID)
				m.metrics.RecordLeaseError(types.ActionCheckingLeases)

				continue
			}

			if acquired {
				m.metrics.RecordLeaseAcquired(false)
				ownedBySelf = append(ownedBySelf, types.Lease{PartitionID: lease.PartitionID, Owner: m.cfg.HostID})
			} else {
				ownedByOthers = append(ownedByOthers, lease)
			}

		case lease.Owner == m.cfg.HostID:
			renewed, err := m.leaseStore.Renew(ctx, lease)
			if err != nil {
				m.notifier.NotifyError(ctx, m.cfg.HostID, err, types.ActionCheckingLeases, lease.PartitionID)
				m.metrics.RecordLeaseError(types.ActionCheckingLeases)

				continue
			}

			m.metrics.RecordLeaseRenewed(renewed)
			if renewed {
				ownedBySelf = append(ownedBySelf, lease)
			} else {
				ownedByOthers = append(ownedByOthers, lease)
			}

		default:
			ownedByOthers = append(ownedByOthers, lease)
		}
	}

	ownedBySelf, ownedByOthers = m.stealOne(ctx, ownedBySelf, ownedByOthers)

	m.reconcilePumps(ctx, ownedBySelf, ownedByOthers)
}

// stealOne implements spec.md §4.2(b): invoke the balancer, and on a
// non-empty result attempt to acquire the victim lease, moving it between
// the two slices on success.
func (m *Manager) stealOne(ctx context.Context, ownedBySelf, ownedByOthers []types.Lease) ([]types.Lease, []types.Lease) {
	victim, ok := m.stealFunc(ownedByOthers, len(ownedBySelf))
	if !ok {
		return ownedBySelf, ownedByOthers
	}

	acquired, err := m.leaseStore.Acquire(ctx, types.Lease{PartitionID: victim.PartitionID, Owner: m.cfg.HostID})
	if err != nil {
		m.notifier.NotifyError(ctx, m.cfg.HostID, err, types.ActionStealingLease, victim.PartitionID)
		m.metrics.RecordStealAttempt(false)

		return ownedBySelf, ownedByOthers
	}

	m.metrics.RecordStealAttempt(acquired)
	if !acquired {
		return ownedBySelf, ownedByOthers
	}

	m.metrics.RecordLeaseAcquired(true)
	ownedBySelf = append(ownedBySelf, types.Lease{PartitionID: victim.PartitionID, Owner: m.cfg.HostID})

	remaining := ownedByOthers[:0]
	for _, lease := range ownedByOthers {
		if lease.PartitionID != victim.PartitionID {
			remaining = append(remaining, lease)
		}
	}

	return ownedBySelf, remaining
}

// reconcilePumps implements spec.md §4.2(c): add a pump for every
// self-owned lease, remove one for every other-owned lease, and
// synchronously await every removal handle before returning.
func (m *Manager) reconcilePumps(ctx context.Context, ownedBySelf, ownedByOthers []types.Lease) {
	nowSelfOwned := make(map[string]types.Lease, len(ownedBySelf))

	for _, lease := range ownedBySelf {
		nowSelfOwned[lease.PartitionID] = lease

		if err := m.supervisor.AddPump(ctx, lease.PartitionID, lease); err != nil {
			m.notifier.NotifyError(ctx, m.cfg.HostID, err, types.ActionCheckingLeases, lease.PartitionID)
			continue
		}

		if _, wasSelfOwned := m.previousSelfOwned[lease.PartitionID]; !wasSelfOwned && m.hooks.OnLeaseAcquired != nil {
			m.hooks.OnLeaseAcquired(ctx, lease)
		}
	}

	var removalHandles []<-chan struct{}
	for _, lease := range ownedByOthers {
		handle := m.supervisor.RemovePump(ctx, lease.PartitionID, types.LeaseLost)
		if handle != nil {
			removalHandles = append(removalHandles, handle)
		}

		if _, wasSelfOwned := m.previousSelfOwned[lease.PartitionID]; wasSelfOwned && m.hooks.OnLeaseLost != nil {
			m.hooks.OnLeaseLost(ctx, lease.PartitionID)
		}
	}

	// Synchronous await: this is the serialization point spec.md §4.2(c)
	// requires so the next iteration never re-acquires a lease whose
	// previous pump has not yet released its subscriber.
	for _, handle := range removalHandles {
		<-handle
	}

	m.previousSelfOwned = nowSelfOwned
	m.metrics.RecordSelfOwnedCount(len(nowSelfOwned))

	m.selfOwnedMu.Lock()
	m.selfOwned = nowSelfOwned
	m.selfOwnedMu.Unlock()
}

// recoverPanic catches a panic escaping the reconciliation loop, reports a
// goroutine dump followed by the panic itself through the notification
// channel (approximating spec.md §4.3's out-of-memory diagnostic, the
// closest Go analogue to an unrecoverable JVM error), then lets cleanup run
// via the surrounding defer chain.
func (m *Manager) recoverPanic() {
	r := recover()
	if r == nil {
		return
	}

	var buf bytes.Buffer
	_ = pprof.Lookup("goroutine").WriteTo(&buf, 1)
	m.notifier.NotifyError(context.Background(), m.cfg.HostID,
		fmt.Errorf("goroutine dump after panic in reconciliation loop:\n%s", buf.String()),
		types.ActionPartitionManagerMainLoop, types.NoAssociatedPartition)

	m.notifier.NotifyError(context.Background(), m.cfg.HostID,
		fmt.Errorf("panic in reconciliation loop: %v", r),
		types.ActionPartitionManagerMainLoop, types.NoAssociatedPartition)
}

// cleanup implements spec.md §4.3's shutdown sequence: tear down every
// running pump and await its completion handle, bounded by
// Config.ShutdownTimeout. A timeout aborts the remaining awaits immediately,
// accepting that some pump handles are abandoned — safe because their
// leases will expire and be picked up elsewhere.
func (m *Manager) cleanup() {
	from := m.State()
	if from == types.StateRunning {
		m.transitionState(from, types.StateStopping)
		from = types.StateStopping
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	handles := m.supervisor.RemoveAllPumps(ctx, types.ManagerShutdown)
	for _, handle := range handles {
		select {
		case <-handle:
		case <-ctx.Done():
			m.notifier.NotifyError(ctx, m.cfg.HostID, ctx.Err(), types.ActionPartitionManagerCleanup, types.NoAssociatedPartition)
			m.transitionState(from, types.StateStopped)

			return
		}
	}

	m.transitionState(from, types.StateStopped)
}

// transitionState atomically moves the manager from `from` to `to`,
// returning false without effect if the transition is illegal or `from` no
// longer matches the current state. On success it logs, notifies
// hooks.OnStateChanged synchronously, and records the metric.
func (m *Manager) transitionState(from, to types.State) bool {
	if !types.IsValidTransition(from, to) {
		return false
	}
	if !m.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}

	m.logger.Info("state transition", "from", from.String(), "to", to.String(), "host_id", m.cfg.HostID)

	if m.hooks.OnStateChanged != nil {
		m.hooks.OnStateChanged(context.Background(), from, to)
	}

	m.metrics.RecordStateTransition(from, to, 0)

	return true
}

// generateHostID derives a best-effort unique host identity from the local
// hostname when none is configured.
func generateHostID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "host"
	}

	return fmt.Sprintf("%s-%d", host, time.Now().UnixNano())
}
