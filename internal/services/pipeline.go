package services

import (
	"sort"
	"strings"

	"github.com/reelwise/discovery/pkg/models"
)

// The filter/personalization pipeline is a set of pure functions: every
// transform returns a fresh slice and never mutates its input, so concurrent
// readers of a shared snapshot are never affected by one request's
// processing. Filtering only shrinks or reorders a list, never grows it.

// ApplyFilters retains a result only if every supplied constraint matches:
// genre (case-insensitive substring against the tag set), exact year, media
// type, and minimum rating (inclusive). Order-preserving, no rescoring.
// Applying the same filters twice yields the same list as applying them once.
func ApplyFilters(results []models.RankedResult, filters *models.SearchFilters) []models.RankedResult {
	if filters == nil || filters.IsZero() {
		out := make([]models.RankedResult, len(results))
		copy(out, results)
		return out
	}

	out := make([]models.RankedResult, 0, len(results))
	for _, r := range results {
		item := models.ContentItem{
			Genres: r.Genres,
			Year:   r.Year,
			Rating: r.Rating,
			Type:   r.Type,
		}
		if matchesFilters(item, filters) {
			out = append(out, r)
		}
	}
	return out
}

// FilterContentIDs applies the same constraints to a bare ID list, resolving
// each ID through lookup. IDs that fail to resolve are dropped.
func FilterContentIDs(ids []string, filters *models.SearchFilters, lookup func(string) (models.ContentItem, bool)) []string {
	if filters == nil || filters.IsZero() {
		out := make([]string, len(ids))
		copy(out, ids)
		return out
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		item, ok := lookup(id)
		if !ok {
			continue
		}
		if matchesFilters(item, filters) {
			out = append(out, id)
		}
	}
	return out
}

func matchesFilters(item models.ContentItem, filters *models.SearchFilters) bool {
	if filters.Genre != "" && !genreMatches(item.Genres, filters.Genre) {
		return false
	}
	if filters.Year != 0 && item.Year != filters.Year {
		return false
	}
	if filters.Type != "" && item.Type != filters.Type {
		return false
	}
	if filters.MinRating != 0 && item.Rating < filters.MinRating {
		return false
	}
	return true
}

func genreMatches(genres []string, wanted string) bool {
	wanted = strings.ToLower(wanted)
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), wanted) {
			return true
		}
	}
	return false
}

// ApplyPersonalization multiplies each result's relevance by a boost factor
// starting at 1.0 and raised by step for every preferred genre matching one
// of the item's tags. Matches compound additively before the single
// multiplication.
func ApplyPersonalization(results []models.RankedResult, prefs *models.UserPreferences, step float64) []models.RankedResult {
	out := make([]models.RankedResult, len(results))
	copy(out, results)

	if prefs == nil || len(prefs.PreferredGenres) == 0 {
		return out
	}

	for i := range out {
		boost := 1.0
		for _, pref := range prefs.PreferredGenres {
			if genreMatches(out[i].Genres, pref) {
				boost += step
			}
		}
		out[i].Relevance *= boost
	}
	return out
}

// TopRatedIDs returns up to limit content IDs sorted by rating descending,
// ties kept in catalog order. Shared by the trending intent, the cold-start
// fallback, and the blender's no-preference arm.
func TopRatedIDs(items []models.ContentItem, limit int) []string {
	return sortedIDs(items, limit, func(a, b models.ContentItem) bool {
		return a.Rating > b.Rating
	})
}

// NewestIDs returns up to limit content IDs sorted by release year
// descending, ties in catalog order.
func NewestIDs(items []models.ContentItem, limit int) []string {
	return sortedIDs(items, limit, func(a, b models.ContentItem) bool {
		return a.Year > b.Year
	})
}

func sortedIDs(items []models.ContentItem, limit int, less func(a, b models.ContentItem) bool) []string {
	ordered := make([]models.ContentItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	ids := make([]string, len(ordered))
	for i, it := range ordered {
		ids[i] = it.ID
	}
	return ids
}
