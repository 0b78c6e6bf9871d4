package services

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		Search: config.SearchConfig{
			MaxFeatures:     10000,
			MinScore:        0.01,
			DefaultLimit:    20,
			RelevanceWeight: 0.7,
			RatingWeight:    0.3,
		},
		Blend: config.BlendConfig{
			LatentRank:          50,
			NeighborCount:       5,
			PositiveThreshold:   3.0,
			CollaborativeShare:  0.6,
			DefaultLimit:        20,
			PreferenceBoostStep: 0.2,
		},
	}
}

func testCatalog() []models.ContentItem {
	return []models.ContentItem{
		{ID: "1", Title: "The Matrix", Synopsis: "A computer programmer discovers reality is a simulation", Genres: []string{"Action", "Sci-Fi"}, Rating: 8.7, Year: 1999, Type: "movie"},
		{ID: "2", Title: "Inception", Synopsis: "A thief steals corporate secrets through dream-sharing technology", Genres: []string{"Action", "Sci-Fi", "Thriller"}, Rating: 8.8, Year: 2010, Type: "movie"},
		{ID: "3", Title: "Interstellar", Synopsis: "Explorers travel through a wormhole to ensure humanity survival", Genres: []string{"Adventure", "Drama", "Sci-Fi"}, Rating: 8.6, Year: 2014, Type: "movie"},
		{ID: "4", Title: "The Dark Knight", Synopsis: "Batman faces the Joker in Gotham City", Genres: []string{"Action", "Crime", "Drama"}, Rating: 9.0, Year: 2008, Type: "movie"},
		{ID: "5", Title: "Pulp Fiction", Synopsis: "The lives of mob hitmen and others intertwine in tales of violence", Genres: []string{"Crime", "Drama"}, Rating: 8.9, Year: 1994, Type: "movie"},
	}
}

// Two users with overlapping tastes plus one outlier. u1 and u2 share
// strong ratings on the same items, u3 likes different content entirely.
func testInteractions() []models.InteractionRecord {
	return []models.InteractionRecord{
		{UserID: "u1", ContentID: "1", Rating: 5},
		{UserID: "u1", ContentID: "2", Rating: 4},
		{UserID: "u2", ContentID: "1", Rating: 5},
		{UserID: "u2", ContentID: "2", Rating: 4},
		{UserID: "u2", ContentID: "3", Rating: 5},
		{UserID: "u3", ContentID: "4", Rating: 2},
		{UserID: "u3", ContentID: "5", Rating: 5},
	}
}

func testEngine(t *testing.T) *DiscoveryEngine {
	t.Helper()
	engine := NewDiscoveryEngine(testConfig(), testLogger())
	engine.Rebuild(testCatalog(), testInteractions())
	return engine
}
