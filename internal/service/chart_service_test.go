package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/chart"
	"github.com/spec-kit/orgchart-viewer/internal/config"
	"github.com/spec-kit/orgchart-viewer/internal/domain"
	"github.com/spec-kit/orgchart-viewer/internal/events"
	"github.com/spec-kit/orgchart-viewer/internal/export"
	"github.com/spec-kit/orgchart-viewer/internal/repository"
	"github.com/spec-kit/orgchart-viewer/internal/roster"
	apperrors "github.com/spec-kit/orgchart-viewer/pkg/util/errorutil"
)

type stubLoader struct {
	result *roster.Result
	err    error
	calls  int
}

func (l *stubLoader) Load(context.Context) (*roster.Result, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	copied := *l.result
	copied.Employees = append([]domain.Employee(nil), l.result.Employees...)
	return &copied, nil
}

func testRoster() []domain.Employee {
	return []domain.Employee{
		{ID: "1", Name: "Ada Root", Department: "Executive"},
		{ID: "2", ManagerID: "1", Name: "Anna Lee", Department: "Engineering"},
		{ID: "3", ManagerID: "2", Name: "Ivan Intern", Department: "Engineering", JobClassification: "Intern"},
		{ID: "4", ManagerID: "3", Name: "Nia Reports", Department: "Design"},
	}
}

type fixture struct {
	svc      *ChartService
	loader   *stubLoader
	recorded []events.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Config{
		Roster: config.RosterConfig{InternSentinel: "Intern"},
		Export: config.ExportConfig{MaxImageBytes: 1 << 20},
	}
	tmpl, err := chart.NewNodeTemplate()
	require.NoError(t, err)
	pdf, err := export.NewPDFWriter("A4", 5, "Org chart")
	require.NoError(t, err)

	f := &fixture{loader: &stubLoader{result: &roster.Result{Employees: testRoster(), Source: "test"}}}
	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{events.EventRosterLoaded, events.EventRosterLoadFailed, events.EventViewChanged, events.EventChartExported} {
		dispatcher.Subscribe(et, func(ctx context.Context, e events.Event) error {
			f.recorded = append(f.recorded, e)
			return nil
		})
	}
	f.svc = NewChartService(cfg, ChartDependencies{
		Loader:     f.loader,
		Sessions:   repository.NewMemorySessionRepository(time.Hour),
		Adapter:    chart.NewAdapter(chart.DefaultConfig(), tmpl),
		PDF:        pdf,
		Dispatcher: dispatcher,
	}, zap.NewNop())
	return f
}

func opsOf(frame chart.Frame) []chart.Op {
	out := make([]chart.Op, len(frame.Commands))
	for i, c := range frame.Commands {
		out[i] = c.Op
	}
	return out
}

func nodeIDs(frame chart.Frame) []string {
	out := make([]string, len(frame.Nodes))
	for i, n := range frame.Nodes {
		out[i] = n.ID
	}
	return out
}

func TestCreateSessionLoadsRosterOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, frame, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, []chart.Op{chart.OpConfigure, chart.OpData, chart.OpRender, chart.OpFit}, opsOf(frame))
	require.Equal(t, []string{"1", "2", "3", "4"}, nodeIDs(frame))
	require.Equal(t, []string{"Executive", "Engineering", "Design"}, session.Palette.Departments())
	require.NotEmpty(t, frame.Nodes[0].Content)

	_, err = f.svc.ExpandAll(ctx, session.ID)
	require.NoError(t, err)
	_, err = f.svc.Frame(ctx, session.ID, false)
	require.NoError(t, err)
	require.Equal(t, 1, f.loader.calls)

	require.Equal(t, events.EventRosterLoaded, f.recorded[0].Type)
}

func TestCreateSessionSurfacesFetchFailure(t *testing.T) {
	f := newFixture(t)
	f.loader.err = &roster.FetchError{Reason: roster.ReasonStatus, Source: "http://x/data.csv", StatusCode: 503}

	_, _, err := f.svc.CreateSession(context.Background())
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "ROSTER_UNAVAILABLE", domainErr.Code)
	require.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	require.Equal(t, "status", domainErr.Details["reason"])
	require.Equal(t, 503, domainErr.Details["status"])

	require.Len(t, f.recorded, 1)
	require.Equal(t, events.EventRosterLoadFailed, f.recorded[0].Type)
}

func TestUpdateViewFiltersAndRestoresInterns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	off := false
	frame, err := f.svc.UpdateView(ctx, session.ID, ViewUpdate{IncludeInterns: &off})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "4"}, nodeIDs(frame))
	require.Equal(t, []chart.Op{chart.OpData, chart.OpRender, chart.OpFit}, opsOf(frame))
	require.Contains(t, frame.Warnings, `with interns hidden: row "4" references missing manager "3"`)

	on := true
	frame, err = f.svc.UpdateView(ctx, session.ID, ViewUpdate{IncludeInterns: &on})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, nodeIDs(frame))
	require.Empty(t, frame.Warnings)
}

func TestSearchAndDepartmentHighlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	frame, err := f.svc.ToggleDepartment(ctx, session.ID, "Engineering")
	require.NoError(t, err)
	engineering, _ := session.Palette.Color("Engineering")
	for _, n := range frame.Nodes {
		require.Equal(t, n.Department == "Engineering", n.Highlighted, n.ID)
		require.Equal(t, n.Department == "Engineering", n.Expanded, n.ID)
		if n.Highlighted {
			require.Equal(t, engineering, n.HighlightColor)
		}
	}

	search := "ann"
	frame, err = f.svc.UpdateView(ctx, session.ID, ViewUpdate{Search: &search})
	require.NoError(t, err)
	for _, n := range frame.Nodes {
		require.Equal(t, n.ID == "2", n.Highlighted, n.ID)
		require.Empty(t, n.HighlightColor)
	}

	cleared := ""
	frame, err = f.svc.UpdateView(ctx, session.ID, ViewUpdate{Search: &cleared})
	require.NoError(t, err)
	require.True(t, frame.Nodes[1].Highlighted)
	require.Equal(t, engineering, frame.Nodes[1].HighlightColor)
}

func TestDepartmentOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.ToggleDepartment(ctx, session.ID, "Finance")
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	_, err = f.svc.SelectAllDepartments(ctx, session.ID)
	require.NoError(t, err)
	depts, err := f.svc.Departments(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, depts, 3)
	for _, d := range depts {
		require.True(t, d.Selected)
	}
	require.Equal(t, 2, depts[1].Employees)

	_, err = f.svc.DeselectAllDepartments(ctx, session.ID)
	require.NoError(t, err)
	depts, err = f.svc.Departments(ctx, session.ID)
	require.NoError(t, err)
	for _, d := range depts {
		require.False(t, d.Selected)
	}

	frame, err := f.svc.ExpandDepartment(ctx, session.ID, "Design")
	require.NoError(t, err)
	for _, n := range frame.Nodes {
		require.Equal(t, n.ID == "4", n.Expanded, n.ID)
		require.False(t, n.Highlighted)
	}
}

func TestExpandAndCollapseAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	frame, err := f.svc.ExpandAll(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, []chart.Op{chart.OpData, chart.OpExpandAll, chart.OpRender, chart.OpFit}, opsOf(frame))
	for _, n := range frame.Nodes {
		require.True(t, n.Expanded)
	}

	frame, err = f.svc.CollapseAll(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, []chart.Op{chart.OpData, chart.OpCollapseAll, chart.OpRender, chart.OpFit}, opsOf(frame))
	for _, n := range frame.Nodes {
		require.False(t, n.Expanded)
	}
}

func TestFrameReconfigure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	frame, err := f.svc.Frame(ctx, session.ID, false)
	require.NoError(t, err)
	require.Equal(t, chart.OpData, frame.Commands[0].Op)

	frame, err = f.svc.Frame(ctx, session.ID, true)
	require.NoError(t, err)
	require.Equal(t, chart.OpConfigure, frame.Commands[0].Op)
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Frame(context.Background(), "missing", false)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestSuggestUsesVisibleRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	got, err := f.svc.Suggest(ctx, session.ID, "iva", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	off := false
	_, err = f.svc.UpdateView(ctx, session.ID, ViewUpdate{IncludeInterns: &off})
	require.NoError(t, err)
	got, err = f.svc.Suggest(ctx, session.ID, "iva", 5)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestExportPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, image.NewGray(image.Rect(0, 0, 64, 32))))
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw.Bytes())

	var out bytes.Buffer
	require.NoError(t, f.svc.ExportPDF(ctx, session.ID, payload, &out))
	require.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))

	last := f.recorded[len(f.recorded)-1]
	require.Equal(t, events.EventChartExported, last.Type)
	require.Equal(t, out.Len(), last.Payload.(events.ChartExportedPayload).Bytes)

	err = f.svc.ExportPDF(ctx, session.ID, "not an image", &out)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestEndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, _, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, session.ID))
	_, err = f.svc.Frame(ctx, session.ID, false)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
