package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.FetchesTotal.WithLabelValues("firms", "live").Inc()
	m.RecordsSkipped.WithLabelValues("firms").Add(3)
	m.AlertsServed.Set(42)

	assert.Equal(t, 1.0, readValue(t, m.FetchesTotal.WithLabelValues("firms", "live")))
	assert.Equal(t, 3.0, readValue(t, m.RecordsSkipped.WithLabelValues("firms")))
	assert.Equal(t, 42.0, readValue(t, m.AlertsServed))

	// A second instance must not collide with the first.
	assert.NotPanics(t, func() { NewMetricsForTesting() })
}

func TestMetrics_RegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()

	require.NoError(t, reg.Register(m.FetchesTotal))
	require.NoError(t, reg.Register(m.StaleCommits))
	assert.Error(t, reg.Register(NewMetricsForTesting().StaleCommits))
}

func readValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	if pb.GetGauge() != nil {
		return pb.GetGauge().GetValue()
	}
	return pb.GetCounter().GetValue()
}
