package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/pkg/models"
)

// Querier is the subset of pgxpool.Pool the repository needs. Tests
// substitute a pgxmock pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// CatalogRepository loads the content catalog and interaction log that feed
// snapshot rebuilds, and persists ingested items.
type CatalogRepository struct {
	pg     Querier
	logger *logrus.Logger
}

func NewCatalogRepository(pg Querier, logger *logrus.Logger) *CatalogRepository {
	return &CatalogRepository{pg: pg, logger: logger}
}

// LoadItems reads the full catalog in insertion order. Catalog order is the
// final ranking tie-breaker, so the ORDER BY is load-bearing.
func (r *CatalogRepository) LoadItems(ctx context.Context) ([]models.ContentItem, error) {
	rows, err := r.pg.Query(ctx, `
		SELECT id, title, synopsis, genres, rating, year, type
		FROM content_items
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Synopsis, &item.Genres,
			&item.Rating, &item.Year, &item.Type); err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content items: %w", err)
	}

	return items, nil
}

// LoadInteractions reads the interaction log oldest-first so that replaying
// it into the rating matrix leaves the latest rating per pair in place.
func (r *CatalogRepository) LoadInteractions(ctx context.Context) ([]models.InteractionRecord, error) {
	rows, err := r.pg.Query(ctx, `
		SELECT user_id, content_id, rating, watch_time
		FROM user_interactions
		ORDER BY recorded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}
	defer rows.Close()

	var records []models.InteractionRecord
	for rows.Next() {
		var rec models.InteractionRecord
		if err := rows.Scan(&rec.UserID, &rec.ContentID, &rec.Rating, &rec.WatchTime); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return records, nil
}

// UpsertItem stores or replaces one catalog entry.
func (r *CatalogRepository) UpsertItem(ctx context.Context, item *models.ContentItem) error {
	_, err := r.pg.Exec(ctx, `
		INSERT INTO content_items (id, title, synopsis, genres, rating, year, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			synopsis = EXCLUDED.synopsis,
			genres = EXCLUDED.genres,
			rating = EXCLUDED.rating,
			year = EXCLUDED.year,
			type = EXCLUDED.type`,
		item.ID, item.Title, item.Synopsis, item.Genres, item.Rating, item.Year, item.Type)
	if err != nil {
		return fmt.Errorf("failed to upsert content item %s: %w", item.ID, err)
	}
	return nil
}

// RecordInteraction appends one interaction event.
func (r *CatalogRepository) RecordInteraction(ctx context.Context, rec *models.InteractionRecord) error {
	_, err := r.pg.Exec(ctx, `
		INSERT INTO user_interactions (user_id, content_id, rating, watch_time, recorded_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		rec.UserID, rec.ContentID, rec.Rating, rec.WatchTime)
	if err != nil {
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}
