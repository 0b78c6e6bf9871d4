package services

import (
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/ml"
	"github.com/reelwise/discovery/pkg/models"
)

// Snapshot is one immutable generation of the discovery state: the catalog,
// its term index, and the collaborative model, all built from the same data
// pull. Requests read exactly one snapshot for their whole lifetime, so a
// concurrent rebuild can never hand them a half-updated view.
type Snapshot struct {
	Items      []models.ContentItem
	Index      *ml.Index
	Model      *CollaborativeModel
	Generation uint64
	BuiltAt    time.Time

	byID map[string]int
}

// Lookup resolves a content ID within this snapshot's catalog.
func (s *Snapshot) Lookup(id string) (models.ContentItem, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.ContentItem{}, false
	}
	return s.Items[i], true
}

// DiscoveryEngine serves search, recommendation, and suggestion requests
// from the current snapshot and swaps in new generations atomically.
type DiscoveryEngine struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64

	indexer *ml.Indexer
	ranker  *Ranker
	blender *Blender

	config *config.Config
	logger *logrus.Logger
}

func NewDiscoveryEngine(cfg *config.Config, logger *logrus.Logger) *DiscoveryEngine {
	return &DiscoveryEngine{
		indexer: ml.NewIndexer(cfg.Search.MaxFeatures, logger),
		ranker:  NewRanker(&cfg.Search, logger),
		blender: NewBlender(&cfg.Blend, &cfg.Search, logger),
		config:  cfg,
		logger:  logger,
	}
}

// Rebuild constructs a fresh snapshot from the given catalog and interaction
// log and publishes it. In-flight requests keep reading the previous
// generation until they finish.
func (e *DiscoveryEngine) Rebuild(items []models.ContentItem, interactions []models.InteractionRecord) *Snapshot {
	start := time.Now()

	catalog := make([]models.ContentItem, len(items))
	copy(catalog, items)

	byID := make(map[string]int, len(catalog))
	for i, item := range catalog {
		byID[item.ID] = i
	}

	snap := &Snapshot{
		Items:      catalog,
		Index:      e.indexer.Build(catalog),
		Model:      BuildCollaborativeModel(interactions, catalog, &e.config.Blend, e.logger),
		Generation: e.generation.Add(1),
		BuiltAt:    time.Now(),
		byID:       byID,
	}
	e.current.Store(snap)

	e.logger.WithFields(logrus.Fields{
		"generation":   snap.Generation,
		"items":        len(catalog),
		"interactions": len(interactions),
		"vocabulary":   snap.Index.Dims(),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Discovery snapshot rebuilt")

	return snap
}

// Snapshot returns the current generation, or nil before the first rebuild.
func (e *DiscoveryEngine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Search ranks the catalog against a free-text query. A blank query is a
// valid request with an empty answer, not an error; a missing snapshot is
// ErrIndexNotReady so callers can tell "nothing matched" from "not serving
// yet".
func (e *DiscoveryEngine) Search(req *models.SearchRequest) ([]models.RankedResult, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrIndexNotReady
	}
	if strings.TrimSpace(req.Query) == "" {
		return []models.RankedResult{}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.config.Search.DefaultLimit
	}

	queryVec := snap.Index.Vectorize(req.Query)
	results := e.ranker.Rank(queryVec, snap.Index, snap.Items, RankOptions{
		MinScore:    e.config.Search.MinScore,
		Limit:       limit,
		Filters:     req.Filters,
		Preferences: req.Preferences,
		BoostStep:   e.config.Blend.PreferenceBoostStep,
	})
	return results, nil
}

// Recommend answers the named intent for a user. Only the for-you and
// similar intents consult the collaborative model; trending and new-releases
// are catalog-wide orderings independent of the user.
func (e *DiscoveryEngine) Recommend(req *models.RecommendRequest) ([]string, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrIndexNotReady
	}
	if strings.TrimSpace(req.UserID) == "" && req.Intent != models.IntentTrending && req.Intent != models.IntentNewReleases {
		return []string{}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = e.config.Blend.DefaultLimit
	}

	switch req.Intent {
	case models.IntentTrending:
		ids := TopRatedIDs(snap.Items, limit)
		return FilterContentIDs(ids, req.Filters, snap.Lookup), nil
	case models.IntentNewReleases:
		ids := NewestIDs(snap.Items, limit)
		return FilterContentIDs(ids, req.Filters, snap.Lookup), nil
	case models.IntentSimilar:
		ids := snap.Model.Recommend(req.UserID, limit)
		return FilterContentIDs(ids, req.Filters, snap.Lookup), nil
	default:
		return e.blender.Blend(snap, req.UserID, req.Preferences, req.Filters, limit), nil
	}
}

// Suggest returns titles containing the prefix, case-insensitively, in
// catalog order. Prefixes shorter than two characters match too much to be
// useful and return nothing.
func (e *DiscoveryEngine) Suggest(prefix string, limit int) ([]string, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrIndexNotReady
	}

	trimmed := strings.TrimSpace(prefix)
	if utf8.RuneCountInString(trimmed) < 2 {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	needle := strings.ToLower(trimmed)
	titles := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, item := range snap.Items {
		if len(titles) >= limit {
			break
		}
		if !strings.Contains(strings.ToLower(item.Title), needle) {
			continue
		}
		if _, dup := seen[item.Title]; dup {
			continue
		}
		seen[item.Title] = struct{}{}
		titles = append(titles, item.Title)
	}
	return titles, nil
}
