package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-viewer/internal/events"
	"github.com/spec-kit/orgchart-viewer/internal/observability"
)

// AuditService turns session events into log lines and metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventRosterLoaded, a.handleRosterLoaded)
	a.dispatcher.Subscribe(events.EventRosterLoadFailed, a.handleRosterLoadFailed)
	a.dispatcher.Subscribe(events.EventViewChanged, a.handleViewChanged)
	a.dispatcher.Subscribe(events.EventChartExported, a.handleChartExported)
}

func (a *AuditService) handleRosterLoaded(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.RosterLoadedPayload)
	a.logger.Info("RosterLoaded",
		zap.String("session_id", event.SessionID),
		zap.String("source", payload.Source),
		zap.Int("rows", payload.Rows),
		zap.Int("rejected", payload.Rejected),
		zap.Int("departments", payload.Departments))
	a.metrics.RecordRosterLoad("ok", payload.Rows)
	return nil
}

func (a *AuditService) handleRosterLoadFailed(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.RosterLoadFailedPayload)
	a.logger.Error("RosterLoadFailed",
		zap.String("source", payload.Source),
		zap.String("reason", payload.Reason),
		zap.String("error", payload.Error))
	a.metrics.RecordRosterLoad("failed", 0)
	return nil
}

func (a *AuditService) handleViewChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ViewChangedPayload)
	a.logger.Debug("ViewChanged",
		zap.String("session_id", event.SessionID),
		zap.String("action", payload.Action),
		zap.Int("visible", payload.Visible),
		zap.Int("highlighted", payload.Highlighted))
	a.metrics.RecordViewChange(payload.Action)
	return nil
}

func (a *AuditService) handleChartExported(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ChartExportedPayload)
	a.logger.Info("ChartExported",
		zap.String("session_id", event.SessionID),
		zap.String("format", payload.Format),
		zap.Int("width", payload.Width),
		zap.Int("height", payload.Height),
		zap.Int("bytes", payload.Bytes))
	a.metrics.RecordExport("ok")
	return nil
}
