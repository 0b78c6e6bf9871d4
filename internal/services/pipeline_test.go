package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelwise/discovery/pkg/models"
)

func resultsFromCatalog() []models.RankedResult {
	items := testCatalog()
	results := make([]models.RankedResult, len(items))
	for i, item := range items {
		results[i] = models.RankedResult{
			ID:        item.ID,
			Title:     item.Title,
			Type:      item.Type,
			Genres:    item.Genres,
			Rating:    item.Rating,
			Year:      item.Year,
			Relevance: 0.5,
		}
	}
	return results
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters *models.SearchFilters
		wantIDs []string
	}{
		{
			name:    "nil filters keep everything",
			filters: nil,
			wantIDs: []string{"1", "2", "3", "4", "5"},
		},
		{
			name:    "zero filters keep everything",
			filters: &models.SearchFilters{},
			wantIDs: []string{"1", "2", "3", "4", "5"},
		},
		{
			name:    "genre substring is case-insensitive",
			filters: &models.SearchFilters{Genre: "sci"},
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "exact year",
			filters: &models.SearchFilters{Year: 2008},
			wantIDs: []string{"4"},
		},
		{
			name:    "minimum rating is inclusive",
			filters: &models.SearchFilters{MinRating: 8.8},
			wantIDs: []string{"2", "4", "5"},
		},
		{
			name:    "combined constraints intersect",
			filters: &models.SearchFilters{Genre: "drama", MinRating: 8.9},
			wantIDs: []string{"4", "5"},
		},
		{
			name:    "no matches yields empty",
			filters: &models.SearchFilters{Genre: "horror"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(resultsFromCatalog(), tt.filters)

			gotIDs := make([]string, len(got))
			for i, r := range got {
				gotIDs[i] = r.ID
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	filters := &models.SearchFilters{Genre: "action", MinRating: 8.7}

	once := ApplyFilters(resultsFromCatalog(), filters)
	twice := ApplyFilters(once, filters)

	assert.Equal(t, once, twice)
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	input := resultsFromCatalog()
	ApplyFilters(input, &models.SearchFilters{Genre: "crime"})

	assert.Len(t, input, 5)
	assert.Equal(t, "1", input[0].ID)
}

func TestFilterContentIDs_DropsUnresolvableIDs(t *testing.T) {
	items := testCatalog()
	byID := make(map[string]models.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	lookup := func(id string) (models.ContentItem, bool) {
		item, ok := byID[id]
		return item, ok
	}

	got := FilterContentIDs([]string{"4", "ghost", "5"}, &models.SearchFilters{Genre: "crime"}, lookup)
	assert.Equal(t, []string{"4", "5"}, got)
}

func TestApplyPersonalization(t *testing.T) {
	prefs := &models.UserPreferences{PreferredGenres: []string{"Sci-Fi", "Thriller"}}

	got := ApplyPersonalization(resultsFromCatalog(), prefs, 0.2)
	require.Len(t, got, 5)

	// Matrix matches one preferred genre, Inception matches two,
	// Pulp Fiction matches none.
	assert.InDelta(t, 0.5*1.2, got[0].Relevance, 1e-9)
	assert.InDelta(t, 0.5*1.4, got[1].Relevance, 1e-9)
	assert.InDelta(t, 0.5, got[4].Relevance, 1e-9)
}

func TestApplyPersonalization_NoPreferencesCopiesInput(t *testing.T) {
	input := resultsFromCatalog()
	got := ApplyPersonalization(input, nil, 0.2)

	assert.Equal(t, input, got)

	got[0].Relevance = 99
	assert.InDelta(t, 0.5, input[0].Relevance, 1e-9)
}

func TestTopRatedIDs(t *testing.T) {
	assert.Equal(t, []string{"4", "5", "2"}, TopRatedIDs(testCatalog(), 3))
	assert.Equal(t, []string{"4", "5", "2", "1", "3"}, TopRatedIDs(testCatalog(), 20))
}

func TestNewestIDs(t *testing.T) {
	assert.Equal(t, []string{"3", "2", "4"}, NewestIDs(testCatalog(), 3))
	assert.Equal(t, []string{"3", "2", "4", "1", "5"}, NewestIDs(testCatalog(), 20))
}
