package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prospector_backend/internal/ai/gemini"
	"prospector_backend/internal/events"
	"prospector_backend/internal/exports"
	"prospector_backend/internal/geo"
	apphttp "prospector_backend/internal/http"
	"prospector_backend/internal/http/router"
	"prospector_backend/internal/leads"
	"prospector_backend/internal/notification"
	"prospector_backend/platform/config"
	"prospector_backend/platform/logger"
	"prospector_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Best-effort geolocation for search prompt enrichment
	geoSvc := geo.NewService(cfg, log)

	// Gemini collaborator for prospect search and email drafting
	aiClient, err := gemini.NewClient(ctx, cfg, geoSvc, log)
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		panic("failed to initialize gemini client: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module forwards domain events to SSE clients
	notificationModule := notification.New()
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.Close()

	leadsModule := leads.NewModule(aiClient, aiClient, eventBus, val, cfg, log)
	exportsModule := exports.NewModule(leadsModule.Store())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Modules: []apphttp.Module{
			leadsModule,
			exportsModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Let an in-flight bulk run finish its current batch before exit.
		leadsModule.Runner().Wait()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}

	log.Info("server stopped")
}
