package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/services"
	"github.com/reelwise/discovery/internal/validation"
)

type Handlers struct {
	Health         *HealthHandler
	Search         *SearchHandler
	Recommendation *RecommendationHandler
	Catalog        *CatalogHandler
	Analytics      *AnalyticsHandler
}

func New(logger *logrus.Logger, services *services.Services) (*Handlers, error) {
	schemaValidator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Search:         NewSearchHandler(services.Engine, services.Cache, services.Metrics, logger),
		Recommendation: NewRecommendationHandler(services.Engine, services.Cache, services.Metrics, logger),
		Catalog:        NewCatalogHandler(services.Catalog, services.MessageBus, schemaValidator, logger),
		Analytics:      NewAnalyticsHandler(services.Analytics, logger),
	}, nil
}
