package dto

import (
	"time"

	"github.com/spec-kit/orgchart-viewer/internal/chart"
	"github.com/spec-kit/orgchart-viewer/internal/service"
)

// SessionResponse is returned when a view session starts.
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Source    string      `json:"source"`
	Frame     chart.Frame `json:"frame"`
}

// ViewUpdateRequest payload for PATCH /api/chart/view.
type ViewUpdateRequest struct {
	IncludeInterns *bool   `json:"include_interns"`
	Search         *string `json:"search"`
}

// ToService converts the payload.
func (r ViewUpdateRequest) ToService() service.ViewUpdate {
	return service.ViewUpdate{IncludeInterns: r.IncludeInterns, Search: r.Search}
}

// ExportRequest payload for POST /api/chart/export.
type ExportRequest struct {
	Image string `json:"image"`
}

// DepartmentsResponse lists department toggles.
type DepartmentsResponse struct {
	Departments []service.DepartmentView `json:"departments"`
}

// SuggestResponse lists search suggestions.
type SuggestResponse struct {
	Suggestions []chart.Suggestion `json:"suggestions"`
}
