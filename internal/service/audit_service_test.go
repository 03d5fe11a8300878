package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/orgchart-viewer/internal/events"
	"github.com/spec-kit/orgchart-viewer/internal/observability"
)

func TestAuditServiceLogsAndCounts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(dispatcher, zap.New(core), observability.NewMetrics(reg)).RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventRosterLoaded, "s1", events.RosterLoadedPayload{Source: "data.csv", Rows: 12, Departments: 3})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventRosterLoadFailed, "", events.RosterLoadFailedPayload{Source: "data.csv", Reason: "not_found"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventViewChanged, "s1", events.ViewChangedPayload{Action: "search", Visible: 12})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventChartExported, "s1", events.ChartExportedPayload{Format: "png", Bytes: 2048})))

	require.Equal(t, 1, logs.FilterMessage("RosterLoaded").Len())
	failed := logs.FilterMessage("RosterLoadFailed").All()
	require.Len(t, failed, 1)
	require.Equal(t, "not_found", failed[0].ContextMap()["reason"])
	require.Equal(t, 1, logs.FilterMessage("ViewChanged").Len())
	require.Equal(t, 1, logs.FilterMessage("ChartExported").Len())

	count, err := testutil.GatherAndCount(reg, "orgchart_roster_loads_total", "orgchart_view_changes_total", "orgchart_exports_total")
	require.NoError(t, err)
	require.Equal(t, 4, count)
}
