package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyticsOverview summarizes the current snapshot for dashboards. The
// engagement percentages are fixtures until the event pipeline lands; the
// counts are real.
type AnalyticsOverview struct {
	TotalContent      int       `json:"total_content"`
	TotalUsers        int       `json:"total_users"`
	TotalInteractions int       `json:"total_interactions"`
	VocabularySize    int       `json:"vocabulary_size"`
	Generation        uint64    `json:"generation"`
	BuiltAt           time.Time `json:"built_at"`
	AvgWatchPercent   float64   `json:"avg_watch_percent"`
	ReturnRatePercent float64   `json:"return_rate_percent"`
}

// AnalyticsService answers overview queries from the current snapshot,
// with a short-lived cache in front.
type AnalyticsService struct {
	engine *DiscoveryEngine
	cache  *ResultCache
	logger *logrus.Logger
}

func NewAnalyticsService(engine *DiscoveryEngine, cache *ResultCache, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{engine: engine, cache: cache, logger: logger}
}

const analyticsOverviewKey = "discovery:analytics:overview"

// Overview builds the dashboard summary for the current generation.
func (s *AnalyticsService) Overview(ctx context.Context) (*AnalyticsOverview, error) {
	if s.cache != nil {
		if raw, ok := s.cache.GetAnalytics(ctx, analyticsOverviewKey); ok {
			var overview AnalyticsOverview
			if err := json.Unmarshal(raw, &overview); err == nil {
				return &overview, nil
			}
		}
	}

	snap := s.engine.Snapshot()
	if snap == nil {
		return nil, ErrIndexNotReady
	}

	overview := &AnalyticsOverview{
		TotalContent:      len(snap.Items),
		TotalUsers:        snap.Model.UserCount(),
		TotalInteractions: snap.Model.InteractionCount(),
		VocabularySize:    snap.Index.Dims(),
		Generation:        snap.Generation,
		BuiltAt:           snap.BuiltAt,
		AvgWatchPercent:   12.5,
		ReturnRatePercent: 78.3,
	}

	if s.cache != nil {
		s.cache.SetAnalytics(ctx, analyticsOverviewKey, overview)
	}
	return overview, nil
}
