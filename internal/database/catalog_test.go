package database

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelwise/discovery/pkg/models"
)

func newMockRepo(t *testing.T) (*CatalogRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewCatalogRepository(mockDB, logger), mockDB
}

func TestCatalogRepository_LoadItems(t *testing.T) {
	repo, mockDB := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"id", "title", "synopsis", "genres", "rating", "year", "type"}).
		AddRow("1", "The Matrix", "A computer programmer discovers reality is a simulation",
			[]string{"Action", "Sci-Fi"}, 8.7, 1999, "movie").
		AddRow("2", "Inception", "A thief steals corporate secrets through dream-sharing technology",
			[]string{"Action", "Sci-Fi", "Thriller"}, 8.8, 2010, "movie")

	mockDB.ExpectQuery("SELECT id, title, synopsis, genres, rating, year, type").
		WillReturnRows(rows)

	items, err := repo.LoadItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "The Matrix", items[0].Title)
	assert.Equal(t, []string{"Action", "Sci-Fi", "Thriller"}, items[1].Genres)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCatalogRepository_LoadItems_EmptyCatalog(t *testing.T) {
	repo, mockDB := newMockRepo(t)

	mockDB.ExpectQuery("SELECT id, title, synopsis, genres, rating, year, type").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "synopsis", "genres", "rating", "year", "type"}))

	items, err := repo.LoadItems(context.Background())

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCatalogRepository_LoadInteractions(t *testing.T) {
	repo, mockDB := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"user_id", "content_id", "rating", "watch_time"}).
		AddRow("u1", "1", 5.0, 120).
		AddRow("u1", "2", 4.0, 0)

	mockDB.ExpectQuery("SELECT user_id, content_id, rating, watch_time").
		WillReturnRows(rows)

	records, err := repo.LoadInteractions(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, 5.0, records[0].Rating)
	assert.Equal(t, 0, records[1].WatchTime)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCatalogRepository_UpsertItem(t *testing.T) {
	repo, mockDB := newMockRepo(t)

	item := &models.ContentItem{
		ID:       "6",
		Title:    "Blade Runner",
		Synopsis: "A blade runner must pursue and terminate replicants",
		Genres:   []string{"Sci-Fi", "Thriller"},
		Rating:   8.1,
		Year:     1982,
		Type:     "movie",
	}

	mockDB.ExpectExec("INSERT INTO content_items").
		WithArgs(item.ID, item.Title, item.Synopsis, item.Genres, item.Rating, item.Year, item.Type).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.UpsertItem(context.Background(), item)

	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestCatalogRepository_RecordInteraction(t *testing.T) {
	repo, mockDB := newMockRepo(t)

	rec := &models.InteractionRecord{
		UserID:    "u9",
		ContentID: "3",
		Rating:    4,
		WatchTime: 95,
	}

	mockDB.ExpectExec("INSERT INTO user_interactions").
		WithArgs(rec.UserID, rec.ContentID, rec.Rating, rec.WatchTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.RecordInteraction(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
