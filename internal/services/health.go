package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/database"
	"github.com/reelwise/discovery/pkg/models"
)

// HealthService reports component health plus the current snapshot
// generation. An engine with no snapshot yet marks the service degraded,
// not unhealthy: the HTTP surface is up, it just cannot answer discovery
// queries.
type HealthService struct {
	config *config.Config
	logger *logrus.Logger
	db     *database.Database
	engine *DiscoveryEngine
}

func NewHealthService(cfg *config.Config, logger *logrus.Logger, db *database.Database, engine *DiscoveryEngine) *HealthService {
	return &HealthService{
		config: cfg,
		logger: logger,
		db:     db,
		engine: engine,
	}
}

func (s *HealthService) CheckHealth() *models.HealthStatus {
	status := &models.HealthStatus{
		Components: make(map[string]string),
	}

	healthy := true
	checks := map[string]func() error{
		"postgresql": s.checkPostgreSQL,
		"redis":      s.checkRedis,
	}
	for name, check := range checks {
		if err := check(); err != nil {
			status.Components[name] = "unhealthy"
			healthy = false
			s.logger.WithError(err).Errorf("Component %s is unhealthy", name)
		} else {
			status.Components[name] = "healthy"
		}
	}

	snap := s.engine.Snapshot()
	if snap == nil {
		status.Components["index"] = "not_ready"
	} else {
		status.Components["index"] = "ready"
		status.Generation = snap.Generation
	}

	switch {
	case !healthy:
		status.Status = "unhealthy"
	case snap == nil:
		status.Status = "degraded"
	default:
		status.Status = "healthy"
	}

	return status
}

func (s *HealthService) checkPostgreSQL() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.PG.Ping(ctx)
}

func (s *HealthService) checkRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.Redis.Ping(ctx).Err()
}
