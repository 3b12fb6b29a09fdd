package pump

import (
	"context"
	"fmt"

	"github.com/arloliu/partman/internal/logging"
	"github.com/arloliu/partman/internal/metrics"
	"github.com/arloliu/partman/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// Pump is a running subscriber for one partition. Run blocks until ctx is
// cancelled or the pump exits on its own (e.g. an unrecoverable per-message
// error); its return value is logged but otherwise not acted on, since
// termination is always driven by the supervisor.
type Pump interface {
	Run(ctx context.Context) error
}

// LeaseAware is an optional interface a Pump may implement to be notified
// when the supervisor refreshes its lease (spec.md §4.5's "atomically swap
// in the new lease object for renewal-timestamp refresh").
type LeaseAware interface {
	UpdateLease(lease types.Lease)
}

// Factory constructs a Pump bound to a partition and its initial lease.
type Factory func(partitionID string, lease types.Lease) (Pump, error)

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger overrides the supervisor's logger.
func WithLogger(logger types.Logger) Option {
	return func(s *Supervisor) { s.logger = logger }
}

// WithMetrics overrides the supervisor's metrics collector.
func WithMetrics(collector types.MetricsCollector) Option {
	return func(s *Supervisor) { s.metrics = collector }
}

type runningPump struct {
	pump   Pump
	cancel context.CancelFunc
	done   chan struct{}
}

// Supervisor implements types.PumpSupervisor. It is safe for concurrent
// use, though the manager only ever calls it from the single reconciliation
// loop goroutine.
type Supervisor struct {
	factory Factory
	logger  types.Logger
	metrics types.MetricsCollector
	pumps   *xsync.Map[string, *runningPump]
}

var _ types.PumpSupervisor = (*Supervisor)(nil)

// NewSupervisor creates a Supervisor that constructs pumps via factory.
func NewSupervisor(factory Factory, opts ...Option) *Supervisor {
	s := &Supervisor{
		factory: factory,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		pumps:   xsync.NewMap[string, *runningPump](),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddPump ensures a pump is running for partitionID. If one is already
// running it swaps in the new lease (notifying the pump if it implements
// LeaseAware); otherwise it starts a new pump bound to lease.
func (s *Supervisor) AddPump(ctx context.Context, partitionID string, lease types.Lease) error {
	if existing, ok := s.pumps.Load(partitionID); ok {
		if aware, ok := existing.pump.(LeaseAware); ok {
			aware.UpdateLease(lease)
		}
		return nil
	}

	p, err := s.factory(partitionID, lease)
	if err != nil {
		return fmt.Errorf("constructing pump for partition %q: %w", partitionID, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	rp := &runningPump{pump: p, cancel: cancel, done: make(chan struct{})}

	if _, loaded := s.pumps.LoadOrStore(partitionID, rp); loaded {
		// Lost a race with a concurrent AddPump for the same partition; the
		// manager's single-threaded loop makes this unreachable in
		// practice, but stay idempotent regardless.
		cancel()
		return nil
	}

	go s.run(partitionID, rp, runCtx)

	s.logger.Info("pump started", "partition_id", partitionID)
	s.metrics.RecordPumpStarted(partitionID)
	s.metrics.RecordRunningPumps(s.pumps.Size())

	return nil
}

func (s *Supervisor) run(partitionID string, rp *runningPump, ctx context.Context) {
	defer close(rp.done)
	defer func() {
		s.pumps.Delete(partitionID)
		s.metrics.RecordRunningPumps(s.pumps.Size())
	}()

	if err := rp.pump.Run(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("pump exited with error", "partition_id", partitionID, "error", err)
	}
}

// RemovePump cancels the running pump for partitionID, if any, and returns
// a channel closed once its goroutine has fully exited. It returns nil if
// no pump was running.
func (s *Supervisor) RemovePump(_ context.Context, partitionID string, reason types.TerminationReason) <-chan struct{} {
	rp, ok := s.pumps.Load(partitionID)
	if !ok {
		return nil
	}

	rp.cancel()
	s.logger.Info("pump stopping", "partition_id", partitionID, "reason", reason.String())
	s.metrics.RecordPumpStopped(partitionID, reason)

	return rp.done
}

// RemoveAllPumps cancels every running pump, returning one completion
// handle per pump that was running.
func (s *Supervisor) RemoveAllPumps(_ context.Context, reason types.TerminationReason) []<-chan struct{} {
	var handles []<-chan struct{}
	s.pumps.Range(func(partitionID string, rp *runningPump) bool {
		rp.cancel()
		s.logger.Info("pump stopping", "partition_id", partitionID, "reason", reason.String())
		s.metrics.RecordPumpStopped(partitionID, reason)
		handles = append(handles, rp.done)
		return true
	})

	return handles
}
