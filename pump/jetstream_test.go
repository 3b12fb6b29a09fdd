package pump

import (
	"context"
	"testing"
	"time"

	partest "github.com/arloliu/partman/testing"
	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestJetStreamPump_DeliversMessagesToHandler(t *testing.T) {
	_, nc := partest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     "events",
		Subjects: []string{"p0"},
		Storage:  jetstream.MemoryStorage,
	})
	require.NoError(t, err)

	received := make(chan string, 1)
	handler := MessageHandlerFunc(func(_ context.Context, msg jetstream.Msg) error {
		received <- string(msg.Data())
		return nil
	})

	factory := NewJetStreamPumpFactory(js, "events", handler, nil)
	p, err := factory("p0", types.Lease{PartitionID: "p0"})
	require.NoError(t, err)

	runCtx, runCancel := context.WithCancel(ctx)
	go func() { _ = p.Run(runCtx) }()

	_, err = js.Publish(ctx, "p0", []byte("hello"))
	require.NoError(t, err)

	select {
	case msg := <-received:
		require.Equal(t, "hello", msg)
	case <-time.After(3 * time.Second):
		t.Fatal("message never delivered")
	}

	runCancel()
}

func TestSanitizeConsumerName(t *testing.T) {
	require.Equal(t, "p0", sanitizeConsumerName("p0"))
	require.Equal(t, "events_p0", sanitizeConsumerName("events.p0"))
}
