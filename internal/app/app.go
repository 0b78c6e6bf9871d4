package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/database"
	"github.com/reelwise/discovery/internal/handlers"
	"github.com/reelwise/discovery/internal/middleware"
	"github.com/reelwise/discovery/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine

	cancelConsumer context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	app.handlers, err = handlers.New(app.logger, services)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Start builds the first snapshot and begins consuming catalog events.
// Request serving does not wait on the initial rebuild; queries before it
// completes get INDEX_NOT_READY.
func (a *App) Start(ctx context.Context) {
	consumerCtx, cancel := context.WithCancel(ctx)
	a.cancelConsumer = cancel

	go func() {
		if err := a.services.Rebuild.RebuildNow(consumerCtx); err != nil {
			a.logger.WithError(err).Error("Initial snapshot rebuild failed")
		}
	}()

	go func() {
		if err := a.services.Rebuild.Run(consumerCtx, a.services.MessageBus); err != nil && consumerCtx.Err() == nil {
			a.logger.WithError(err).Error("Catalog event consumer stopped")
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.cancelConsumer != nil {
		a.cancelConsumer()
	}

	if err := a.services.MessageBus.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing message bus")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))
		api.Use(middleware.RateLimit(a.services.RateLimit))

		search := api.Group("/search")
		{
			search.POST("", a.handlers.Search.Search)
			search.GET("/suggest", a.handlers.Search.Suggest)
		}

		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("/:userId", a.handlers.Recommendation.Get)
			recommendations.POST("", a.handlers.Recommendation.Post)
		}

		content := api.Group("/content")
		{
			content.POST("", a.handlers.Catalog.UpsertContent)
		}

		api.POST("/interactions", a.handlers.Catalog.RecordInteraction)

		analytics := api.Group("/analytics")
		{
			analytics.GET("/overview", a.handlers.Analytics.Overview)
		}
	}

	a.router = router
}
