package ml

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelwise/discovery/pkg/models"
)

func testCatalog() []models.ContentItem {
	return []models.ContentItem{
		{ID: "1", Title: "The Matrix", Synopsis: "A computer programmer discovers reality is a simulation", Genres: []string{"Action", "Sci-Fi"}, Rating: 8.7, Year: 1999, Type: "movie"},
		{ID: "2", Title: "Inception", Synopsis: "A thief steals corporate secrets through dream-sharing technology", Genres: []string{"Action", "Sci-Fi", "Thriller"}, Rating: 8.8, Year: 2010, Type: "movie"},
		{ID: "3", Title: "Interstellar", Synopsis: "Explorers travel through a wormhole to ensure humanity survival", Genres: []string{"Adventure", "Drama", "Sci-Fi"}, Rating: 8.6, Year: 2014, Type: "movie"},
		{ID: "4", Title: "The Dark Knight", Synopsis: "Batman faces the Joker in Gotham City", Genres: []string{"Action", "Crime", "Drama"}, Rating: 9.0, Year: 2008, Type: "movie"},
		{ID: "5", Title: "Pulp Fiction", Synopsis: "The lives of mob hitmen and others intertwine in tales of violence", Genres: []string{"Crime", "Drama"}, Rating: 8.9, Year: 1994, Type: "movie"},
	}
}

func testIndexer(t *testing.T) *Indexer {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewIndexer(10000, logger)
}

func TestIndexer_Build_SharedDimensionality(t *testing.T) {
	idx := testIndexer(t).Build(testCatalog())

	require.Equal(t, 5, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		assert.Len(t, idx.ItemVector(i), idx.Dims())
	}

	qv := idx.Vectorize("dream thief")
	assert.Len(t, qv, idx.Dims())
}

func TestIndexer_Build_RanksMatchingItemHighest(t *testing.T) {
	idx := testIndexer(t).Build(testCatalog())

	qv := idx.Vectorize("thief steals dream secrets")

	best, bestScore := -1, 0.0
	for i := 0; i < idx.Len(); i++ {
		if s := Cosine(qv, idx.ItemVector(i)); s > bestScore {
			best, bestScore = i, s
		}
	}

	assert.Equal(t, 1, best, "Inception should be the closest item")
	assert.Greater(t, bestScore, 0.1)
}

func TestIndexer_Vectorize_OutOfVocabulary(t *testing.T) {
	idx := testIndexer(t).Build(testCatalog())

	qv := idx.Vectorize("zzzzz qqqqq")
	for _, v := range qv {
		assert.Zero(t, v)
	}
}

func TestIndexer_Build_Deterministic(t *testing.T) {
	ix := testIndexer(t)

	a := ix.Build(testCatalog())
	b := ix.Build(testCatalog())

	require.Equal(t, a.Dims(), b.Dims())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.ItemVector(i), b.ItemVector(i))
	}
}

func TestIndexer_MaxFeaturesCapsVocabulary(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	idx := NewIndexer(10, logger).Build(testCatalog())
	assert.Equal(t, 10, idx.Dims())
}

func TestTerms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and punctuation",
			text: "The Matrix!",
			want: []string{"matrix"},
		},
		{
			name: "stop words removed before bigrams",
			text: "lives of mob",
			want: []string{"lives", "mob", "lives mob"},
		},
		{
			name: "unigrams plus adjacent bigrams",
			text: "dark knight rises",
			want: []string{"dark", "knight", "rises", "dark knight", "knight rises"},
		},
		{
			name: "empty",
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Terms(tt.text))
		})
	}
}

func TestCosine_ZeroNorm(t *testing.T) {
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 0}))
	assert.Zero(t, Cosine([]float64{1, 0}, []float64{0, 0}))
	assert.InDelta(t, 1.0, Cosine([]float64{1, 1}, []float64{2, 2}), 1e-9)
}
