package partman

import (
	"fmt"
	"time"
)

// Config is the configuration for the Manager.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h"
// when loaded from YAML/env; as a Go struct they are plain time.Duration values.
type Config struct {
	// HostID identifies this host in lease ownership and error notifications.
	// Must be unique across the cluster. If empty, NewManager generates one.
	HostID string `yaml:"hostId"`

	// LeaseDuration is how long an acquired lease remains valid without renewal.
	// Recommended: 4-6x RenewInterval to tolerate a couple of missed renewals.
	LeaseDuration time.Duration `yaml:"leaseDuration"`

	// RenewInterval is how often the reconciliation loop runs: it renews
	// self-owned leases, attempts to acquire unowned/expired ones, and
	// considers stealing one lease from an overloaded host.
	//
	// Recommended: LeaseDuration / 5.
	RenewInterval time.Duration `yaml:"renewInterval"`

	// LeaseBucket is the NATS JetStream KV bucket name used for lease storage.
	LeaseBucket string `yaml:"leaseBucket"`

	// CheckpointBucket is the NATS JetStream KV bucket name used for checkpoint storage.
	CheckpointBucket string `yaml:"checkpointBucket"`

	// InitTimeout bounds the whole fail-fast initialization phase (lease
	// store, checkpoint store, per-partition lease/checkpoint creation) as
	// one deadline shared by all of its steps.
	// Recommended: 10 seconds.
	InitTimeout time.Duration `yaml:"initTimeout"`

	// ShutdownTimeout is the maximum time to wait for all pumps to drain
	// during StopPartitions.
	// Recommended: 30 seconds.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DefaultConfig returns a Config with sensible production defaults. HostID
// is left blank; SetDefaults fills it with a generated value. The bucket
// names are set to fixed names shared by every host in the cluster.
func DefaultConfig() Config {
	return Config{
		LeaseDuration:    30 * time.Second,
		RenewInterval:    6 * time.Second,
		LeaseBucket:      "partman-leases",
		CheckpointBucket: "partman-checkpoints",
		InitTimeout:      10 * time.Second,
		ShutdownTimeout:  30 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
// HostID, if empty, is generated as a random identifier.
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.HostID == "" {
		cfg.HostID = generateHostID()
	}
	if cfg.LeaseDuration == 0 {
		cfg.LeaseDuration = defaults.LeaseDuration
	}
	if cfg.RenewInterval == 0 {
		cfg.RenewInterval = defaults.RenewInterval
	}
	if cfg.LeaseBucket == "" {
		cfg.LeaseBucket = defaults.LeaseBucket
	}
	if cfg.CheckpointBucket == "" {
		cfg.CheckpointBucket = defaults.CheckpointBucket
	}
	if cfg.InitTimeout == 0 {
		cfg.InitTimeout = defaults.InitTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// Validate checks configuration constraints and returns an error describing
// the first violation found, or nil if cfg is valid.
func (cfg *Config) Validate() error {
	if cfg.HostID == "" {
		return fmt.Errorf("%w: HostID must not be empty", ErrInvalidConfig)
	}
	if cfg.LeaseDuration <= 0 {
		return fmt.Errorf("%w: LeaseDuration must be > 0, got %v", ErrInvalidConfig, cfg.LeaseDuration)
	}
	if cfg.RenewInterval <= 0 {
		return fmt.Errorf("%w: RenewInterval must be > 0, got %v", ErrInvalidConfig, cfg.RenewInterval)
	}
	if cfg.RenewInterval >= cfg.LeaseDuration {
		return fmt.Errorf(
			"%w: RenewInterval (%v) must be < LeaseDuration (%v) so leases are renewed before expiry",
			ErrInvalidConfig, cfg.RenewInterval, cfg.LeaseDuration,
		)
	}
	if cfg.LeaseBucket == "" {
		return fmt.Errorf("%w: LeaseBucket must not be empty", ErrInvalidConfig)
	}
	if cfg.CheckpointBucket == "" {
		return fmt.Errorf("%w: CheckpointBucket must not be empty", ErrInvalidConfig)
	}
	if cfg.InitTimeout <= 0 {
		return fmt.Errorf("%w: InitTimeout must be > 0, got %v", ErrInvalidConfig, cfg.InitTimeout)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: ShutdownTimeout must be > 0, got %v", ErrInvalidConfig, cfg.ShutdownTimeout)
	}

	return nil
}

// TestConfig returns a configuration tuned for fast test execution: lease
// durations and renewal intervals are 10-100x shorter than production
// defaults so tests observe convergence without sleeping for tens of
// seconds. Use DefaultConfig for production deployments.
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.LeaseDuration = 500 * time.Millisecond
	cfg.RenewInterval = 100 * time.Millisecond
	cfg.InitTimeout = 2 * time.Second
	cfg.ShutdownTimeout = 2 * time.Second

	return cfg
}
