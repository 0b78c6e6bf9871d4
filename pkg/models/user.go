package models

// UserPreferences carries the genres a user has opted into. Supplied per
// request and never persisted by the engine.
type UserPreferences struct {
	PreferredGenres []string `json:"preferred_genres,omitempty"`
}

// SearchFilters are the structured constraints applied by the filter
// pipeline. Zero values mean "not supplied".
type SearchFilters struct {
	Genre     string  `json:"genre,omitempty"`
	Year      int     `json:"year,omitempty"`
	MinRating float64 `json:"min_rating,omitempty"`
	Type      string  `json:"type,omitempty" validate:"omitempty,oneof=movie series"`
}

// IsZero reports whether no constraint is set.
func (f SearchFilters) IsZero() bool {
	return f.Genre == "" && f.Year == 0 && f.MinRating == 0 && f.Type == ""
}
