package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/orgchart-viewer/internal/api/http"
	"github.com/spec-kit/orgchart-viewer/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-viewer/internal/auth"
	"github.com/spec-kit/orgchart-viewer/internal/chart"
	"github.com/spec-kit/orgchart-viewer/internal/config"
	"github.com/spec-kit/orgchart-viewer/internal/events"
	"github.com/spec-kit/orgchart-viewer/internal/export"
	"github.com/spec-kit/orgchart-viewer/internal/observability"
	"github.com/spec-kit/orgchart-viewer/internal/persistence"
	"github.com/spec-kit/orgchart-viewer/internal/repository"
	"github.com/spec-kit/orgchart-viewer/internal/roster"
	"github.com/spec-kit/orgchart-viewer/internal/service"
	"github.com/spec-kit/orgchart-viewer/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var employees roster.EmployeeLister
	if pg.Enabled() {
		employees = repository.NewEmployeeRepository(pg.PoolHandle())
	}
	loader, err := roster.NewLoader(cfg.Roster, employees, logger)
	if err != nil {
		logger.Fatal("failed to build roster loader", zap.Error(err))
	}

	var redis *persistence.Redis
	var sessions repository.SessionRepository
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		sessions = repository.NewRedisSessionRepository(redis.Client, cfg.Session.TTL())
	default:
		sessions = repository.NewMemorySessionRepository(cfg.Session.TTL())
	}

	tmpl, err := chart.NewNodeTemplate()
	if err != nil {
		logger.Fatal("failed to parse node template", zap.Error(err))
	}
	pdf, err := export.NewPDFWriter(cfg.Export.PageSize, cfg.Export.MarginMM, "Organization Chart")
	if err != nil {
		logger.Fatal("failed to configure pdf export", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	chartService := service.NewChartService(*cfg, service.ChartDependencies{
		Loader:     loader,
		Sessions:   sessions,
		Adapter:    chart.NewAdapter(chart.DefaultConfig(), tmpl),
		PDF:        pdf,
		Dispatcher: dispatcher,
	}, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Session.TTL())

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		RequestTimeout: cfg.App.RequestTimeout(),
		CORSOrigins:    cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Sessions:          handlers.NewSessionHandler(chartService, tokens),
		Charts:            handlers.NewChartHandler(chartService),
		Exports:           handlers.NewExportHandler(chartService),
		SessionMiddleware: auth.NewSessionMiddleware(tokens),
		Gatherer:          registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("orgchart viewer started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("roster_source", cfg.Roster.Source),
		zap.String("session_store", cfg.Session.Store),
	)

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.App.RequestTimeout()); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
