// Package pump provides a concrete types.PumpSupervisor and a reference
// JetStream-backed Pump implementation.
//
// Supervisor keeps its running-pump table in a puzpuzpuz/xsync.Map keyed by
// partition id rather than a mutex-guarded map, matching the concurrent-map
// style the rest of this module's ancestry uses for lock-light registries
// under high churn.
package pump
