package natsutil

import (
	"errors"
	"strings"

	"github.com/arloliu/partman/types"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// IsConnectivityError reports whether err is caused by NATS connectivity
// issues (timeouts, connection refused, disconnections) as opposed to an
// application-level failure. Store implementations use this to decide
// whether to wrap a failure as types.ErrStoreUnavailable.
//
// Kept in internal/natsutil to avoid importing NATS dependencies in types/.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, types.ErrStoreUnavailable) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}
