package models

// SearchRequest is the search endpoint payload.
type SearchRequest struct {
	Query       string           `json:"query"`
	Filters     *SearchFilters   `json:"filters,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	Limit       int              `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// RankedResult is one search hit. Relevance is the raw cosine similarity
// after any personalization boost; Score is the final display score blending
// relevance with intrinsic quality.
type RankedResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Synopsis  string   `json:"synopsis"`
	Genres    []string `json:"genres"`
	Rating    float64  `json:"rating"`
	Year      int      `json:"year"`
	Relevance float64  `json:"relevance"`
	Score     float64  `json:"score"`
}
