package handlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-viewer/internal/api/dto"
	"github.com/spec-kit/orgchart-viewer/internal/export"
	"github.com/spec-kit/orgchart-viewer/internal/service"
	apperrors "github.com/spec-kit/orgchart-viewer/pkg/util/errorutil"
)

// ExportHandler turns a chart raster into a downloadable PDF.
type ExportHandler struct {
	charts *service.ChartService
}

// NewExportHandler constructs handler.
func NewExportHandler(charts *service.ChartService) *ExportHandler {
	return &ExportHandler{charts: charts}
}

// PDF handles POST /api/chart/export. The body is either JSON
// {"image": "<data url or base64>"} or the base64 text itself.
func (h *ExportHandler) PDF(c *fiber.Ctx) error {
	sessionID, err := requireSession(c)
	if err != nil {
		return err
	}

	payload := string(c.Body())
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req dto.ExportRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		payload = req.Image
	}

	var buf bytes.Buffer
	if err := h.charts.ExportPDF(c.UserContext(), sessionID, payload, &buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	return c.Send(buf.Bytes())
}
