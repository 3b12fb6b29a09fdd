package metrics

import (
	"testing"

	"github.com/arloliu/partman/types"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_RecordsSelfOwnedGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc := NewPrometheus(reg, "partman_test")

	pc.RecordSelfOwnedCount(4)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)

	var found *dto.MetricFamily
	for _, mf := range metricFamilies {
		if mf.GetName() == "partman_test_lease_self_owned" {
			found = mf
		}
	}
	require.NotNil(t, found, "expected self_owned gauge to be registered")
	require.Equal(t, float64(4), found.GetMetric()[0].GetGauge().GetValue())
}

func TestPrometheusCollector_DefaultsNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc := NewPrometheus(reg, "")
	require.Equal(t, "partman", pc.namespace)
}

func TestPrometheusCollector_ImplementsMetricsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	pc := NewPrometheus(reg, "partman_test")
	var mc types.MetricsCollector = pc
	require.NotPanics(t, func() {
		mc.RecordLeaseAcquired(true)
		mc.RecordPumpStopped("p0", types.ManagerShutdown)
	})
}
