package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventViewChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventViewChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "second:"+e.SessionID)
		return nil
	})
	d.Subscribe(EventChartExported, func(ctx context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventViewChanged, "s1", ViewChangedPayload{Action: "search"}))
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"first", "second:s1"}, calls)
}

func TestNewEventStampsIdentity(t *testing.T) {
	a := NewEvent(EventRosterLoaded, "", nil)
	b := NewEvent(EventRosterLoaded, "", nil)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.Timestamp.IsZero())
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false
	d.Subscribe(EventChartExported, func(ctx context.Context, e Event) error {
		panic("bad payload")
	})
	d.Subscribe(EventChartExported, func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventChartExported, "s1", ChartExportedPayload{}))
	require.ErrorContains(t, err, "chart_exported handler: panic: bad payload")
	require.True(t, delivered)
}
