package service

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
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

const sessionLockStripes = 64

// ChartDependencies encapsulates collaborators of the chart service.
type ChartDependencies struct {
	Loader     roster.Loader
	Sessions   repository.SessionRepository
	Adapter    *chart.Adapter
	PDF        *export.PDFWriter
	Dispatcher events.Dispatcher
}

// ChartService owns view sessions: it loads the roster once per session,
// applies user actions to the view state and produces chart frames.
type ChartService struct {
	loader        roster.Loader
	sessions      repository.SessionRepository
	adapter       *chart.Adapter
	pdf           *export.PDFWriter
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	sentinel      string
	maxImageBytes int
	now           func() time.Time
	locks         [sessionLockStripes]sync.Mutex
}

// NewChartService constructs the service.
func NewChartService(cfg config.Config, deps ChartDependencies, logger *zap.Logger) *ChartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	return &ChartService{
		loader:        deps.Loader,
		sessions:      deps.Sessions,
		adapter:       deps.Adapter,
		pdf:           deps.PDF,
		dispatcher:    dispatcher,
		logger:        logger,
		sentinel:      cfg.Roster.InternSentinel,
		maxImageBytes: cfg.Export.MaxImageBytes,
		now:           time.Now,
	}
}

// ViewUpdate carries optional changes to the filter and search inputs.
type ViewUpdate struct {
	IncludeInterns *bool
	Search         *string
}

// DepartmentView describes one department toggle.
type DepartmentView struct {
	Department string `json:"department"`
	Color      string `json:"color"`
	Selected   bool   `json:"selected"`
	Employees  int    `json:"employees"`
}

// CreateSession loads the roster and returns the new session with its first
// frame. Load failures are returned as typed upstream errors.
func (s *ChartService) CreateSession(ctx context.Context) (*domain.Session, chart.Frame, error) {
	result, err := s.loader.Load(ctx)
	if err != nil {
		s.publish(ctx, events.NewEvent(events.EventRosterLoadFailed, "", loadFailedPayload(err)))
		return nil, chart.Frame{}, rosterError(err)
	}

	now := s.now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Roster:    result.Employees,
		Palette:   chart.AllocatePalette(result.Employees),
		State:     domain.NewViewState(),
		Warnings:  result.Warnings(),
		Source:    result.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	frame, err := s.render(session, chart.ActionRefresh, true)
	if err != nil {
		return nil, chart.Frame{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, chart.Frame{}, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventRosterLoaded, session.ID, events.RosterLoadedPayload{
		Source:      result.Source,
		Rows:        len(result.Employees),
		Rejected:    len(result.Rejected),
		Departments: len(session.Palette.Entries),
	}))
	return session, frame, nil
}

// Frame returns the current chart frame. reconfigure asks for a frame that
// starts by configuring a fresh chart.
func (s *ChartService) Frame(ctx context.Context, sessionID string, reconfigure bool) (chart.Frame, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return chart.Frame{}, err
	}
	return s.render(session, chart.ActionRefresh, reconfigure || !session.Rendered)
}

// UpdateView changes the intern filter and/or the search text.
func (s *ChartService) UpdateView(ctx context.Context, sessionID string, update ViewUpdate) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "update_view", chart.ActionRefresh, func(session *domain.Session) error {
		if update.IncludeInterns != nil {
			session.State = chart.SetIncludeInterns(session.State, *update.IncludeInterns)
		}
		if update.Search != nil {
			session.State = chart.SetSearch(session.State, *update.Search)
		}
		return nil
	})
}

// ToggleDepartment flips a department's highlight selection.
func (s *ChartService) ToggleDepartment(ctx context.Context, sessionID, department string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "toggle_department", chart.ActionRefresh, func(session *domain.Session) error {
		if err := requireDepartment(session, department); err != nil {
			return err
		}
		session.State = chart.ToggleDepartment(session.State, session.Roster, department)
		return nil
	})
}

// ExpandDepartment opens every node of a department.
func (s *ChartService) ExpandDepartment(ctx context.Context, sessionID, department string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "expand_department", chart.ActionRefresh, func(session *domain.Session) error {
		if err := requireDepartment(session, department); err != nil {
			return err
		}
		session.State = chart.ExpandDepartment(session.State, session.Roster, department)
		return nil
	})
}

// SelectAllDepartments highlights every department.
func (s *ChartService) SelectAllDepartments(ctx context.Context, sessionID string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "select_all_departments", chart.ActionRefresh, func(session *domain.Session) error {
		session.State = chart.SelectAllDepartments(session.State, session.Palette)
		return nil
	})
}

// DeselectAllDepartments clears every department highlight.
func (s *ChartService) DeselectAllDepartments(ctx context.Context, sessionID string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "deselect_all_departments", chart.ActionRefresh, func(session *domain.Session) error {
		session.State = chart.DeselectAllDepartments(session.State)
		return nil
	})
}

// ExpandAll opens every visible node.
func (s *ChartService) ExpandAll(ctx context.Context, sessionID string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "expand_all", chart.ActionExpandAll, func(session *domain.Session) error {
		visible := chart.FilterInterns(session.Roster, session.State.IncludeInterns, s.sentinel)
		session.State = chart.ExpandAll(session.State, visible)
		return nil
	})
}

// CollapseAll closes every node.
func (s *ChartService) CollapseAll(ctx context.Context, sessionID string) (chart.Frame, error) {
	return s.mutate(ctx, sessionID, "collapse_all", chart.ActionCollapseAll, func(session *domain.Session) error {
		session.State = chart.CollapseAll(session.State)
		return nil
	})
}

// Departments lists the department toggles in first-seen order.
func (s *ChartService) Departments(ctx context.Context, sessionID string) ([]DepartmentView, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range session.Roster {
		counts[e.Department]++
	}
	out := make([]DepartmentView, 0, len(session.Palette.Entries))
	for _, entry := range session.Palette.Entries {
		out = append(out, DepartmentView{
			Department: entry.Department,
			Color:      entry.Color,
			Selected:   session.State.SelectedDepartments.Has(entry.Department),
			Employees:  counts[entry.Department],
		})
	}
	return out, nil
}

// Suggest returns fuzzy name matches among the visible rows.
func (s *ChartService) Suggest(ctx context.Context, sessionID, query string, limit int) ([]chart.Suggestion, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	visible := chart.FilterInterns(session.Roster, session.State.IncludeInterns, s.sentinel)
	return chart.Suggest(visible, query, limit), nil
}

// ExportPDF embeds the chart raster produced by the client into a PDF written
// to w.
func (s *ChartService) ExportPDF(ctx context.Context, sessionID, payload string, w io.Writer) error {
	if _, err := s.load(ctx, sessionID); err != nil {
		return err
	}
	img, err := export.DecodeImage(payload, s.maxImageBytes)
	if err != nil {
		return imageError(err)
	}
	counter := &countingWriter{w: w}
	if err := s.pdf.Write(counter, img); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventChartExported, sessionID, events.ChartExportedPayload{
		Format: img.Format,
		Width:  img.Width,
		Height: img.Height,
		Bytes:  counter.n,
	}))
	return nil
}

// EndSession discards a session.
func (s *ChartService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *ChartService) mutate(ctx context.Context, sessionID, label string, action chart.Action, apply func(*domain.Session) error) (chart.Frame, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return chart.Frame{}, err
	}
	if err := apply(session); err != nil {
		return chart.Frame{}, err
	}
	session.UpdatedAt = s.now().UTC()

	frame, err := s.render(session, action, !session.Rendered)
	if err != nil {
		return chart.Frame{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return chart.Frame{}, apperrors.NewInternalError(err)
	}

	highlighted := 0
	for _, n := range frame.Nodes {
		if n.Highlighted {
			highlighted++
		}
	}
	s.publish(ctx, events.NewEvent(events.EventViewChanged, sessionID, events.ViewChangedPayload{
		Action:      label,
		Visible:     len(frame.Nodes),
		Highlighted: highlighted,
	}))
	return frame, nil
}

func (s *ChartService) render(session *domain.Session, action chart.Action, first bool) (chart.Frame, error) {
	visible := chart.FilterInterns(session.Roster, session.State.IncludeInterns, s.sentinel)
	nodes := chart.Derive(visible, session.State, session.Palette)

	rec := chart.NewRecorder()
	if err := s.adapter.Apply(rec, action, nodes, first); err != nil {
		return chart.Frame{}, apperrors.NewInternalError(err)
	}
	session.Rendered = true

	frame := rec.Frame()
	frame.Warnings = append([]string{}, session.Warnings...)
	if !session.State.IncludeInterns {
		for _, issue := range roster.CheckHierarchy(visible) {
			frame.Warnings = append(frame.Warnings, "with interns hidden: "+issue.String())
		}
	}
	return frame, nil
}

func (s *ChartService) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperrors.NewNotFound("session", map[string]any{"session_id": sessionID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	if session.State.SelectedDepartments == nil {
		session.State.SelectedDepartments = domain.StringSet{}
	}
	if session.State.ExpandedNodes == nil {
		session.State.ExpandedNodes = domain.StringSet{}
	}
	return session, nil
}

func (s *ChartService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

func (s *ChartService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func requireDepartment(session *domain.Session, department string) error {
	if _, ok := session.Palette.Color(department); !ok {
		return apperrors.NewNotFound("department", map[string]any{"department": department})
	}
	return nil
}

func rosterError(err error) error {
	details := map[string]any{}
	var fetchErr *roster.FetchError
	if errors.As(err, &fetchErr) {
		details["reason"] = string(fetchErr.Reason)
		details["source"] = fetchErr.Source
		if fetchErr.StatusCode != 0 {
			details["status"] = fetchErr.StatusCode
		}
		var decodeErr *roster.DecodeError
		if errors.As(err, &decodeErr) {
			details["rows"] = decodeErr.Rows
		}
	}
	return apperrors.NewUpstreamError("ROSTER_UNAVAILABLE", "roster could not be loaded", details, err)
}

func loadFailedPayload(err error) events.RosterLoadFailedPayload {
	payload := events.RosterLoadFailedPayload{Reason: "unknown", Error: err.Error()}
	var fetchErr *roster.FetchError
	if errors.As(err, &fetchErr) {
		payload.Reason = string(fetchErr.Reason)
		payload.Source = fetchErr.Source
	}
	return payload
}

func imageError(err error) error {
	switch {
	case errors.Is(err, export.ErrImageTooLarge):
		return apperrors.NewPayloadTooLarge("chart image exceeds the export limit", nil)
	case errors.Is(err, export.ErrEmptyImage),
		errors.Is(err, export.ErrInvalidEncoding),
		errors.Is(err, export.ErrUnsupportedImage):
		return apperrors.NewValidationError("invalid chart image", map[string]any{"image": err.Error()})
	default:
		return apperrors.NewInternalError(err)
	}
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
