package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("/api/chart", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/api/chart", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/chart/export", "POST", "VALIDATION_FAILED")
	m.RecordRosterLoad("ok", 42)
	m.RecordExport("ok")
	m.RecordViewChange("expand_all")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "orgchart_http_requests_total")
	require.Equal(t, float64(2), byName["orgchart_http_requests_total"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, float64(42), byName["orgchart_roster_rows"].GetMetric()[0].GetGauge().GetValue())
	require.Contains(t, byName, "orgchart_http_errors_total")
	require.Contains(t, byName, "orgchart_exports_total")
	require.Contains(t, byName, "orgchart_view_changes_total")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordRosterLoad("failed", 0)
		m.RecordExport("failed")
		m.RecordViewChange("search")
	})
}
