package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-viewer/internal/api/dto"
	"github.com/spec-kit/orgchart-viewer/internal/auth"
	"github.com/spec-kit/orgchart-viewer/internal/chart"
	"github.com/spec-kit/orgchart-viewer/internal/service"
	apperrors "github.com/spec-kit/orgchart-viewer/pkg/util/errorutil"
)

const (
	defaultSuggestLimit = 8
	maxSuggestLimit     = 50
)

// ChartHandler exposes the chart view of the caller's session.
type ChartHandler struct {
	charts *service.ChartService
}

// NewChartHandler constructs handler.
func NewChartHandler(charts *service.ChartService) *ChartHandler {
	return &ChartHandler{charts: charts}
}

// Get handles GET /api/chart.
func (h *ChartHandler) Get(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.Frame(c.UserContext(), sessionID, c.QueryBool("reconfigure", false))
	return respondFrame(c, frame, err)
}

// UpdateView handles PATCH /api/chart/view.
func (h *ChartHandler) UpdateView(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	var req dto.ViewUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IncludeInterns == nil && req.Search == nil {
		return apperrors.NewValidationError("include_interns or search required", nil)
	}
	frame, err := h.charts.UpdateView(c.UserContext(), sessionID, req.ToService())
	return respondFrame(c, frame, err)
}

// Departments handles GET /api/chart/departments.
func (h *ChartHandler) Departments(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	departments, err := h.charts.Departments(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DepartmentsResponse{Departments: departments}})
}

// ToggleDepartment handles POST /api/chart/departments/:name/toggle.
func (h *ChartHandler) ToggleDepartment(c *fiber.Ctx) error {
	sessionID, department, err := sessionAndDepartment(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.ToggleDepartment(c.UserContext(), sessionID, department)
	return respondFrame(c, frame, err)
}

// ExpandDepartment handles POST /api/chart/departments/:name/expand.
func (h *ChartHandler) ExpandDepartment(c *fiber.Ctx) error {
	sessionID, department, err := sessionAndDepartment(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.ExpandDepartment(c.UserContext(), sessionID, department)
	return respondFrame(c, frame, err)
}

// SelectAllDepartments handles POST /api/chart/departments/select-all.
func (h *ChartHandler) SelectAllDepartments(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.SelectAllDepartments(c.UserContext(), sessionID)
	return respondFrame(c, frame, err)
}

// DeselectAllDepartments handles POST /api/chart/departments/deselect-all.
func (h *ChartHandler) DeselectAllDepartments(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.DeselectAllDepartments(c.UserContext(), sessionID)
	return respondFrame(c, frame, err)
}

// ExpandAll handles POST /api/chart/expand-all.
func (h *ChartHandler) ExpandAll(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.ExpandAll(c.UserContext(), sessionID)
	return respondFrame(c, frame, err)
}

// CollapseAll handles POST /api/chart/collapse-all.
func (h *ChartHandler) CollapseAll(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	frame, err := h.charts.CollapseAll(c.UserContext(), sessionID)
	return respondFrame(c, frame, err)
}

// Suggest handles GET /api/chart/suggest?q=.
func (h *ChartHandler) Suggest(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", defaultSuggestLimit)
	if limit <= 0 || limit > maxSuggestLimit {
		return apperrors.NewValidationError("limit out of range", map[string]any{"max": maxSuggestLimit})
	}
	suggestions, err := h.charts.Suggest(c.UserContext(), sessionID, c.Query("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SuggestResponse{Suggestions: suggestions}})
}

func respondFrame(c *fiber.Ctx, frame chart.Frame, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": frame})
}

func requireSession(c *fiber.Ctx) (string, error) {
	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return "", apperrors.NewUnauthorized("session required")
	}
	return sessionID, nil
}

func sessionAndDepartment(c *fiber.Ctx) (string, string, error) {
	sessionID, err := requireSession(c)
	if err != nil {
		return "", "", err
	}
	department, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(department) == "" {
		return "", "", apperrors.NewValidationError("invalid department", nil)
	}
	return sessionID, department, nil
}
