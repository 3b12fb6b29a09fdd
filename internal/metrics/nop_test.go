package metrics

import (
	"testing"

	"github.com/arloliu/partman/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	m := NewNop()
	require.NotNil(t, m)
	require.IsType(t, &NopMetrics{}, m)
}

func TestNopMetrics_NeverPanics(t *testing.T) {
	m := NewNop()
	require.NotPanics(t, func() {
		m.RecordStateTransition(types.StateInit, types.StateRunning, 1.5)
		m.RecordInitFailure(types.ActionCreatingLeaseStore)
		m.RecordIterationDuration(0.01)
		m.RecordLeaseAcquired(true)
		m.RecordLeaseRenewed(false)
		m.RecordLeaseError(types.ActionCheckingLeases)
		m.RecordSelfOwnedCount(3)
		m.RecordPumpStarted("p0")
		m.RecordPumpStopped("p0", types.LeaseLost)
		m.RecordRunningPumps(2)
		m.RecordStealAttempt(true)
	})
}
