package services

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/internal/ml"
	"github.com/reelwise/discovery/pkg/models"
)

// Ranker scores catalog items against a query vector and shapes the final
// result order. It holds no index state of its own; the index and catalog
// come in per call so concurrent requests can run against different
// snapshot generations.
type Ranker struct {
	config *config.SearchConfig
	logger *logrus.Logger
}

// RankOptions carries the per-request knobs for a ranking pass.
type RankOptions struct {
	MinScore    float64
	Limit       int
	Filters     *models.SearchFilters
	Preferences *models.UserPreferences
	BoostStep   float64
}

func NewRanker(cfg *config.SearchConfig, logger *logrus.Logger) *Ranker {
	return &Ranker{
		config: cfg,
		logger: logger,
	}
}

// Rank computes cosine relevance between the query vector and every item,
// drops items under the relevance floor, applies filters and the
// personalization boost, then blends relevance with intrinsic quality:
// final = relevanceWeight*relevance + ratingWeight*(rating/10).
// Sort is descending by final score, ties by raw relevance, then catalog
// order. At most opts.Limit results are returned.
func (r *Ranker) Rank(queryVec []float64, idx *ml.Index, items []models.ContentItem, opts RankOptions) []models.RankedResult {
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = r.config.MinScore
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = r.config.DefaultLimit
	}

	results := make([]models.RankedResult, 0, len(items))
	for i, item := range items {
		relevance := ml.Cosine(queryVec, idx.ItemVector(i))
		if relevance < minScore {
			continue
		}
		results = append(results, models.RankedResult{
			ID:        item.ID,
			Title:     item.Title,
			Type:      item.Type,
			Synopsis:  item.Synopsis,
			Genres:    item.Genres,
			Rating:    item.Rating,
			Year:      item.Year,
			Relevance: relevance,
		})
	}

	results = ApplyFilters(results, opts.Filters)

	// Boost mutates the relevance component, so it must run before the
	// relevance/rating blend.
	boost := opts.BoostStep
	if boost == 0 {
		boost = 0.2
	}
	results = ApplyPersonalization(results, opts.Preferences, boost)

	for i := range results {
		results[i].Score = r.config.RelevanceWeight*results[i].Relevance +
			r.config.RatingWeight*(results[i].Rating/10.0)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Relevance > results[j].Relevance
	})

	if len(results) > limit {
		results = results[:limit]
	}

	r.logger.WithFields(logrus.Fields{
		"candidates": len(items),
		"results":    len(results),
	}).Debug("Similarity ranking completed")

	return results
}

// RankBySimilarity returns the IDs of the top limit items by raw cosine
// similarity, ties broken by catalog order. Used by the hybrid blender's
// content-based arm, which ranks a preference profile without the quality
// blend or relevance floor.
func (r *Ranker) RankBySimilarity(queryVec []float64, idx *ml.Index, items []models.ContentItem, limit int) []string {
	type scored struct {
		pos   int
		score float64
	}

	candidates := make([]scored, len(items))
	for i := range items {
		candidates[i] = scored{pos: i, score: ml.Cosine(queryVec, idx.ItemVector(i))}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = items[c.pos].ID
	}
	return ids
}
