package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-viewer/internal/api/dto"
	"github.com/spec-kit/orgchart-viewer/internal/auth"
	"github.com/spec-kit/orgchart-viewer/internal/service"
	apperrors "github.com/spec-kit/orgchart-viewer/pkg/util/errorutil"
)

// SessionHandler starts and ends view sessions.
type SessionHandler struct {
	charts *service.ChartService
	tokens *auth.TokenManager
}

// NewSessionHandler constructs handler.
func NewSessionHandler(charts *service.ChartService, tokens *auth.TokenManager) *SessionHandler {
	return &SessionHandler{charts: charts, tokens: tokens}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	session, frame, err := h.charts.CreateSession(c.UserContext())
	if err != nil {
		return err
	}

	token, exp, err := h.tokens.GenerateToken(session.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SessionResponse{
			SessionID: session.ID,
			Token:     token,
			ExpiresAt: exp,
			Source:    session.Source,
			Frame:     frame,
		},
	})
}

// Delete handles DELETE /api/sessions/current.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	if err := h.charts.EndSession(c.UserContext(), sessionID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
