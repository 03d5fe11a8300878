package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/orgchart-viewer/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-viewer/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Sessions          *handlers.SessionHandler
	Charts            *handlers.ChartHandler
	Exports           *handlers.ExportHandler
	SessionMiddleware *auth.SessionMiddleware
	Gatherer          prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/sessions", cfg.Sessions.Create)
	api.Delete("/sessions/current", cfg.SessionMiddleware.Handle, cfg.Sessions.Delete)

	chartGroup := api.Group("/chart", cfg.SessionMiddleware.Handle)
	chartGroup.Get("", cfg.Charts.Get)
	chartGroup.Patch("/view", cfg.Charts.UpdateView)
	chartGroup.Get("/departments", cfg.Charts.Departments)
	chartGroup.Post("/departments/select-all", cfg.Charts.SelectAllDepartments)
	chartGroup.Post("/departments/deselect-all", cfg.Charts.DeselectAllDepartments)
	chartGroup.Post("/departments/:name/toggle", cfg.Charts.ToggleDepartment)
	chartGroup.Post("/departments/:name/expand", cfg.Charts.ExpandDepartment)
	chartGroup.Post("/expand-all", cfg.Charts.ExpandAll)
	chartGroup.Post("/collapse-all", cfg.Charts.CollapseAll)
	chartGroup.Get("/suggest", cfg.Charts.Suggest)
	chartGroup.Post("/export", cfg.Exports.PDF)
}
