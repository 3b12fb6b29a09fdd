package metrics

import (
	"sync"

	"github.com/arloliu/partman/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// It embeds NopMetrics for full interface coverage and overrides only the
// metrics it actually instruments.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	stateTransitions   *prometheus.CounterVec
	initFailures       *prometheus.CounterVec
	iterationDuration  prometheus.Histogram
	leasesAcquired     *prometheus.CounterVec
	leasesRenewed      *prometheus.CounterVec
	leaseErrors        *prometheus.CounterVec
	selfOwnedLeases    prometheus.Gauge
	pumpsStarted       prometheus.Counter
	pumpsStopped       *prometheus.CounterVec
	runningPumps       prometheus.Gauge
	stealAttempts      *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// reg defaults to prometheus.DefaultRegisterer if nil; namespace defaults
// to "partman" if empty.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "partman"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "state_transitions_total",
			Help:      "Total manager lifecycle state transitions by destination state.",
		}, []string{"to"})

		p.initFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "init_failures_total",
			Help:      "Total fatal initialization failures by action tag.",
		}, []string{"action"})

		p.iterationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "manager",
			Name:      "iteration_duration_seconds",
			Help:      "Wall-clock duration of one reconciliation loop iteration.",
			Buckets:   prometheus.DefBuckets,
		})

		p.leasesAcquired = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "lease",
			Name:      "acquired_total",
			Help:      "Total leases acquired, split by whether the acquisition was a steal.",
		}, []string{"stolen"})

		p.leasesRenewed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "lease",
			Name:      "renewed_total",
			Help:      "Total renew attempts by outcome.",
		}, []string{"result"})

		p.leaseErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "lease",
			Name:      "errors_total",
			Help:      "Total per-lease errors by action tag.",
		}, []string{"action"})

		p.selfOwnedLeases = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "lease",
			Name:      "self_owned",
			Help:      "Current number of leases owned by this host.",
		})

		p.pumpsStarted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pump",
			Name:      "started_total",
			Help:      "Total pumps started.",
		})

		p.pumpsStopped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pump",
			Name:      "stopped_total",
			Help:      "Total pumps stopped by termination reason.",
		}, []string{"reason"})

		p.runningPumps = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "pump",
			Name:      "running",
			Help:      "Current number of running pumps.",
		})

		p.stealAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "balancer",
			Name:      "steal_attempts_total",
			Help:      "Total steal attempts by outcome.",
		}, []string{"result"})

		p.reg.MustRegister(
			p.stateTransitions,
			p.initFailures,
			p.iterationDuration,
			p.leasesAcquired,
			p.leasesRenewed,
			p.leaseErrors,
			p.selfOwnedLeases,
			p.pumpsStarted,
			p.pumpsStopped,
			p.runningPumps,
			p.stealAttempts,
		)
	})
}

// RecordStateTransition records a manager state transition.
func (p *PrometheusCollector) RecordStateTransition(_, to types.State, _ float64) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(to.String()).Inc()
}

// RecordInitFailure records a fatal initialization failure.
func (p *PrometheusCollector) RecordInitFailure(action types.ActionTag) {
	p.ensureRegistered()
	p.initFailures.WithLabelValues(string(action)).Inc()
}

// RecordIterationDuration observes one loop iteration's duration.
func (p *PrometheusCollector) RecordIterationDuration(duration float64) {
	p.ensureRegistered()
	p.iterationDuration.Observe(duration)
}

// RecordLeaseAcquired records a successful acquire.
func (p *PrometheusCollector) RecordLeaseAcquired(stolen bool) {
	p.ensureRegistered()
	if stolen {
		p.leasesAcquired.WithLabelValues("true").Inc()
	} else {
		p.leasesAcquired.WithLabelValues("false").Inc()
	}
}

// RecordLeaseRenewed records the outcome of a renew attempt.
func (p *PrometheusCollector) RecordLeaseRenewed(success bool) {
	p.ensureRegistered()
	if success {
		p.leasesRenewed.WithLabelValues("success").Inc()
	} else {
		p.leasesRenewed.WithLabelValues("lost").Inc()
	}
}

// RecordLeaseError records a per-lease error tagged by action.
func (p *PrometheusCollector) RecordLeaseError(action types.ActionTag) {
	p.ensureRegistered()
	p.leaseErrors.WithLabelValues(string(action)).Inc()
}

// RecordSelfOwnedCount sets the self-owned lease gauge.
func (p *PrometheusCollector) RecordSelfOwnedCount(count int) {
	p.ensureRegistered()
	p.selfOwnedLeases.Set(float64(count))
}

// RecordPumpStarted records a pump being created.
func (p *PrometheusCollector) RecordPumpStarted(_ string) {
	p.ensureRegistered()
	p.pumpsStarted.Inc()
}

// RecordPumpStopped records a pump being torn down.
func (p *PrometheusCollector) RecordPumpStopped(_ string, reason types.TerminationReason) {
	p.ensureRegistered()
	p.pumpsStopped.WithLabelValues(reason.String()).Inc()
}

// RecordRunningPumps sets the running pump gauge.
func (p *PrometheusCollector) RecordRunningPumps(count int) {
	p.ensureRegistered()
	p.runningPumps.Set(float64(count))
}

// RecordStealAttempt records a steal decision outcome.
func (p *PrometheusCollector) RecordStealAttempt(succeeded bool) {
	p.ensureRegistered()
	if succeeded {
		p.stealAttempts.WithLabelValues("success").Inc()
	} else {
		p.stealAttempts.WithLabelValues("failure").Inc()
	}
}
