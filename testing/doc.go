// Package testing provides test utilities for the partman module.
//
// This package offers helpers for setting up test environments, in
// particular an embedded NATS/JetStream server, following Go's convention
// of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: single in-process NATS server with JetStream
//   - CreateJetStreamKV: convenience wrapper for KV bucket creation
package testing
