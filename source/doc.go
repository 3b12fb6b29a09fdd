// Package source provides built-in types.PartitionSource implementations.
//
// The package includes:
//
//   - Static: a fixed list of partition ids, useful for testing.
//   - JetStreamStream: discovers partition ids from a JetStream stream's
//     configured subjects.
//
// Custom sources can be implemented by satisfying types.PartitionSource.
package source
