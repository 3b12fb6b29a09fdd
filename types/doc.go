// Package types provides the core type definitions and interfaces shared
// across the partman module.
//
// Keeping these types in a separate package avoids import cycles between
// the root partman package and its internal implementations (store, pump,
// source, ...).
//
// Key types:
//   - Lease: the unit of partition ownership
//   - LeaseStore / CheckpointStore: external store contracts
//   - PumpSupervisor: the running-worker contract
//   - State: PartitionManager lifecycle state
//   - Logger / MetricsCollector / ErrorNotifier / Hooks: ambient interfaces
package types
