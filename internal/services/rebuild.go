package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/messaging"
	"github.com/reelwise/discovery/pkg/models"
)

// CatalogStore supplies the data a snapshot rebuild needs.
type CatalogStore interface {
	LoadItems(ctx context.Context) ([]models.ContentItem, error)
	LoadInteractions(ctx context.Context) ([]models.InteractionRecord, error)
}

// RebuildScheduler turns catalog-update events into snapshot rebuilds. A
// burst of events collapses into one rebuild per debounce window; rebuilds
// never run concurrently with each other.
type RebuildScheduler struct {
	store   CatalogStore
	engine  *DiscoveryEngine
	cache   *ResultCache
	metrics *Metrics
	logger  *logrus.Logger

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
}

func NewRebuildScheduler(
	store CatalogStore,
	engine *DiscoveryEngine,
	cache *ResultCache,
	metrics *Metrics,
	logger *logrus.Logger,
) *RebuildScheduler {
	return &RebuildScheduler{
		store:    store,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		debounce: 5 * time.Second,
	}
}

// RebuildNow loads the catalog and interaction log and publishes a fresh
// snapshot. The previous snapshot keeps serving if the load fails.
func (s *RebuildScheduler) RebuildNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobID := uuid.New()
	start := time.Now()

	items, err := s.store.LoadItems(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", jobID).Error("Rebuild aborted, catalog load failed")
		return err
	}
	interactions, err := s.store.LoadInteractions(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", jobID).Error("Rebuild aborted, interaction load failed")
		return err
	}

	snap := s.engine.Rebuild(items, interactions)

	if s.metrics != nil {
		s.metrics.RebuildDuration.Observe(time.Since(start).Seconds())
		s.metrics.SnapshotItems.Set(float64(len(snap.Items)))
		s.metrics.SnapshotUsers.Set(float64(snap.Model.UserCount()))
	}
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}

	s.logger.WithFields(logrus.Fields{
		"job_id":     jobID,
		"generation": snap.Generation,
	}).Info("Snapshot rebuild complete")

	return nil
}

// HandleEvent schedules a rebuild after the debounce window. Every event
// kind invalidates the snapshot the same way, so the payload is ignored.
func (s *RebuildScheduler) HandleEvent(ctx context.Context, event messaging.CatalogEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.RebuildNow(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled rebuild failed")
		}
	})

	s.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"kind":     event.Kind,
	}).Debug("Rebuild scheduled")

	return nil
}

// Run consumes catalog events until ctx is cancelled.
func (s *RebuildScheduler) Run(ctx context.Context, bus *messaging.MessageBus) error {
	return bus.ConsumeEvents(ctx, func(event messaging.CatalogEvent) error {
		return s.HandleEvent(ctx, event)
	})
}
