package partman

// Option configures a Manager with optional dependencies.
type Option func(*managerOptions)

// managerOptions holds optional Manager configuration.
type managerOptions struct {
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	notifier  ErrorNotifier
	stealFunc func(leasesOwnedByOthers []Lease, selfOwnedCount int) (Lease, bool)
}

// WithHooks sets lifecycle event hooks.
//
// Example:
//
//	hooks := &partman.Hooks{
//	    OnLeaseAcquired: func(ctx context.Context, lease partman.Lease) {
//	        log.Printf("acquired %s", lease.PartitionID)
//	    },
//	}
//	mgr, _ := partman.NewManager(&cfg, leaseStore, checkpointStore, src, sup, partman.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *managerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector. Defaults to a no-op collector.
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *managerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger. Defaults to a no-op logger.
func WithLogger(logger Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// WithErrorNotifier sets the error-notification sink described by spec.md
// §6. Defaults to a notifier that logs through the configured Logger.
func WithErrorNotifier(notifier ErrorNotifier) Option {
	return func(o *managerOptions) {
		o.notifier = notifier
	}
}

// WithBalancer overrides the load-balancing decision function used each
// reconciliation iteration to decide whether to steal a lease from an
// overloaded host. Defaults to balancer.Steal. Provided for tests that need
// deterministic or disabled stealing; production callers should not need
// this.
func WithBalancer(steal func(leasesOwnedByOthers []Lease, selfOwnedCount int) (Lease, bool)) Option {
	return func(o *managerOptions) {
		o.stealFunc = steal
	}
}
