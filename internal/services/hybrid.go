package services

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/pkg/models"
)

// Blender merges collaborative and content-based recommendation arms into a
// single personalized list.
type Blender struct {
	config *config.BlendConfig
	search *config.SearchConfig
	logger *logrus.Logger
}

func NewBlender(cfg *config.BlendConfig, search *config.SearchConfig, logger *logrus.Logger) *Blender {
	return &Blender{config: cfg, search: search, logger: logger}
}

// Blend produces up to limit content IDs for a user. The collaborative arm
// is reserved ceil(share*limit) slots and always wins conflicts; the
// content arm fills whatever remains. Filters are applied after the merge,
// so a heavily filtered request can return fewer than limit items even when
// the catalog holds enough matches. Refilling after the cut would need both
// arms to over-produce, which is not worth it at current catalog sizes.
func (b *Blender) Blend(
	snap *Snapshot,
	userID string,
	prefs *models.UserPreferences,
	filters *models.SearchFilters,
	limit int,
) []string {
	if limit <= 0 {
		limit = b.config.DefaultLimit
	}

	collaborative := snap.Model.Recommend(userID, limit)
	content := b.contentArm(snap, prefs, limit)

	share := int(math.Ceil(float64(limit) * b.config.CollaborativeShare))
	if share > limit {
		share = limit
	}
	if share > len(collaborative) {
		share = len(collaborative)
	}

	merged := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	for _, id := range collaborative[:share] {
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}
	for _, id := range content {
		if len(merged) >= limit {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, id)
	}

	merged = FilterContentIDs(merged, filters, snap.Lookup)
	if len(merged) > limit {
		merged = merged[:limit]
	}

	b.logger.WithFields(logrus.Fields{
		"user_id":       userID,
		"collaborative": len(collaborative),
		"content":       len(content),
		"blended":       len(merged),
	}).Debug("Blended recommendation arms")

	return merged
}

// contentArm ranks the catalog against the user's preferred genres. Without
// stated preferences there is nothing to embed, so the arm degrades to the
// popularity ordering.
func (b *Blender) contentArm(snap *Snapshot, prefs *models.UserPreferences, limit int) []string {
	if prefs == nil || len(prefs.PreferredGenres) == 0 {
		return TopRatedIDs(snap.Items, limit)
	}

	query := snap.Index.Vectorize(strings.Join(prefs.PreferredGenres, " "))
	ranker := &Ranker{config: b.search, logger: b.logger}
	return ranker.RankBySimilarity(query, snap.Index, snap.Items, limit)
}
