package pump

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/partman/internal/logging"
	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go/jetstream"
)

// MessageHandler processes one message delivered to a partition's pump.
// The event-hub wire protocol and per-message dispatch are out of scope for
// this module; MessageHandler is the seam a caller plugs application logic
// into.
type MessageHandler interface {
	Handle(ctx context.Context, msg jetstream.Msg) error
}

// MessageHandlerFunc adapts a function to a MessageHandler.
type MessageHandlerFunc func(ctx context.Context, msg jetstream.Msg) error

// Handle calls f(ctx, msg).
func (f MessageHandlerFunc) Handle(ctx context.Context, msg jetstream.Msg) error {
	return f(ctx, msg)
}

// NewJetStreamPumpFactory returns a Factory whose pumps are durable
// JetStream pull consumers filtered to their partition's subject. One
// durable consumer is created per partition, named deterministically so
// restarts on the same host resume the existing consumer rather than
// creating a duplicate.
func NewJetStreamPumpFactory(js jetstream.JetStream, streamName string, handler MessageHandler, logger types.Logger) Factory {
	if logger == nil {
		logger = logging.NewNop()
	}

	return func(partitionID string, lease types.Lease) (Pump, error) {
		return &jetStreamPump{
			js:          js,
			streamName:  streamName,
			partitionID: partitionID,
			handler:     handler,
			logger:      logger,
			lease:       lease,
		}, nil
	}
}

type jetStreamPump struct {
	js          jetstream.JetStream
	streamName  string
	partitionID string
	handler     MessageHandler
	logger      types.Logger

	mu    sync.Mutex
	lease types.Lease
}

var _ Pump = (*jetStreamPump)(nil)
var _ LeaseAware = (*jetStreamPump)(nil)

// UpdateLease records the latest lease handed to this pump by the
// supervisor. The pump itself does not act on lease expiry directly; the
// manager tears it down via RemovePump once it observes the lease is lost.
func (p *jetStreamPump) UpdateLease(lease types.Lease) {
	p.mu.Lock()
	p.lease = lease
	p.mu.Unlock()
}

// Run creates (or resumes) a durable pull consumer for this partition and
// dispatches every delivered message to handler until ctx is cancelled.
func (p *jetStreamPump) Run(ctx context.Context) error {
	consumerName := "partman-" + sanitizeConsumerName(p.partitionID)

	cons, err := p.js.CreateOrUpdateConsumer(ctx, p.streamName, jetstream.ConsumerConfig{
		Durable:       consumerName,
		FilterSubject: p.partitionID,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("creating consumer for partition %q: %w", p.partitionID, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return fmt.Errorf("starting message iterator for partition %q: %w", p.partitionID, err)
	}
	defer iter.Stop()

	go func() {
		<-ctx.Done()
		iter.Stop()
	}()

	for {
		msg, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
				return nil
			}
			p.logger.Warn("pump iterator error", "partition_id", p.partitionID, "error", err)
			continue
		}

		if err := p.handler.Handle(ctx, msg); err != nil {
			p.logger.Warn("pump handler error", "partition_id", p.partitionID, "error", err)
			continue
		}
		if err := msg.Ack(); err != nil {
			p.logger.Warn("pump ack error", "partition_id", p.partitionID, "error", err)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func sanitizeConsumerName(partitionID string) string {
	out := make([]byte, len(partitionID))
	for i := 0; i < len(partitionID); i++ {
		c := partitionID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			out[i] = c
		default:
			out[i] = '_'
		}
	}

	return string(out)
}
