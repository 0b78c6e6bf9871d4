package services

import (
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/database"
	"github.com/reelwise/discovery/internal/messaging"
)

type Services struct {
	Auth      *AuthService
	Health    *HealthService
	RateLimit *RateLimiter

	Engine    *DiscoveryEngine
	Cache     *ResultCache
	Catalog   *database.CatalogRepository
	Rebuild   *RebuildScheduler
	Analytics *AnalyticsService
	Metrics   *Metrics

	MessageBus *messaging.MessageBus
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis)
	rateLimiter := NewRateLimiter(db.Redis, &cfg.Auth.RateLimit, logger)

	engine := NewDiscoveryEngine(cfg, logger)
	cache := NewResultCache(db.Redis, &cfg.Caching, logger)
	metrics := NewMetrics()
	catalog := database.NewCatalogRepository(db.PG, logger)

	messageBus, err := messaging.NewMessageBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	rebuild := NewRebuildScheduler(catalog, engine, cache, metrics, logger)
	analytics := NewAnalyticsService(engine, cache, logger)
	healthService := NewHealthService(cfg, logger, db, engine)

	return &Services{
		Auth:       authService,
		Health:     healthService,
		RateLimit:  rateLimiter,
		Engine:     engine,
		Cache:      cache,
		Catalog:    catalog,
		Rebuild:    rebuild,
		Analytics:  analytics,
		Metrics:    metrics,
		MessageBus: messageBus,
	}, nil
}
