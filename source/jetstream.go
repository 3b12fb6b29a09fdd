package source

import (
	"context"
	"fmt"

	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamStream discovers partition ids from a JetStream stream's
// configured subjects: one partition id per literal subject. This is a
// convenience source for deployments that model each partition as its own
// JetStream subject rather than maintaining a separate partition registry.
type JetStreamStream struct {
	js         jetstream.JetStream
	streamName string
}

var _ types.PartitionSource = (*JetStreamStream)(nil)

// NewJetStreamStream creates a partition source backed by streamName's
// subject list.
func NewJetStreamStream(js jetstream.JetStream, streamName string) *JetStreamStream {
	return &JetStreamStream{js: js, streamName: streamName}
}

// ListPartitions returns one partition id per subject configured on the
// stream, in the order the stream reports them.
func (s *JetStreamStream) ListPartitions(ctx context.Context) ([]string, error) {
	stream, err := s.js.Stream(ctx, s.streamName)
	if err != nil {
		return nil, fmt.Errorf("looking up stream %q: %w", s.streamName, err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching stream info for %q: %w", s.streamName, err)
	}

	subjects := info.Config.Subjects
	partitionIDs := make([]string, len(subjects))
	copy(partitionIDs, subjects)

	return partitionIDs, nil
}
