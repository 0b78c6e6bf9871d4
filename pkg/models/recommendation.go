package models

import "time"

// Recommendation intents. Unrecognized intents fall through to the hybrid
// blender, same as IntentForYou.
const (
	IntentForYou      = "for-you"
	IntentTrending    = "trending"
	IntentSimilar     = "similar"
	IntentNewReleases = "new-releases"
)

// RecommendRequest is the recommendation endpoint payload.
type RecommendRequest struct {
	UserID      string           `json:"user_id" validate:"required"`
	Intent      string           `json:"intent,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Filters     *SearchFilters   `json:"filters,omitempty"`
	Limit       int              `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// RecommendationResponse wraps an ordered, deduplicated list of content IDs.
type RecommendationResponse struct {
	UserID      string    `json:"user_id"`
	Intent      string    `json:"intent"`
	ContentIDs  []string  `json:"content_ids"`
	GeneratedAt time.Time `json:"generated_at"`
	CacheHit    bool      `json:"cache_hit"`
}

// SuggestResponse is the autocomplete payload.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}
