package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
	"github.com/reelwise/discovery/pkg/models"
)

// ResultCache stores serialized responses in Redis keyed by a canonical
// digest of the request. Cache misses and Redis failures are equivalent:
// the caller recomputes and the error is only logged.
type ResultCache struct {
	client *redis.Client
	config *config.CachingConfig
	logger *logrus.Logger
}

func NewResultCache(client *redis.Client, cfg *config.CachingConfig, logger *logrus.Logger) *ResultCache {
	return &ResultCache{client: client, config: cfg, logger: logger}
}

// SearchCacheKey derives a key from every request field that affects the
// response. Fields are serialized as sorted key=value pairs, so two
// requests that mean the same thing always hash the same regardless of the
// order the caller assembled them in.
func SearchCacheKey(req *models.SearchRequest) string {
	pairs := []string{
		fmt.Sprintf("limit=%d", req.Limit),
		"query=" + strings.ToLower(strings.TrimSpace(req.Query)),
	}
	pairs = append(pairs, filterPairs(req.Filters)...)
	pairs = append(pairs, preferencePairs(req.Preferences)...)
	return "discovery:search:" + digest(pairs)
}

// RecommendCacheKey derives a key for a recommendation request.
func RecommendCacheKey(req *models.RecommendRequest) string {
	pairs := []string{
		"intent=" + req.Intent,
		fmt.Sprintf("limit=%d", req.Limit),
		"user=" + req.UserID,
	}
	pairs = append(pairs, filterPairs(req.Filters)...)
	pairs = append(pairs, preferencePairs(req.Preferences)...)
	return "discovery:recommend:" + digest(pairs)
}

func filterPairs(filters *models.SearchFilters) []string {
	if filters == nil {
		return nil
	}
	var pairs []string
	if filters.Genre != "" {
		pairs = append(pairs, "genre="+strings.ToLower(filters.Genre))
	}
	if filters.Year != 0 {
		pairs = append(pairs, fmt.Sprintf("year=%d", filters.Year))
	}
	if filters.MinRating != 0 {
		pairs = append(pairs, fmt.Sprintf("min_rating=%g", filters.MinRating))
	}
	if filters.Type != "" {
		pairs = append(pairs, "type="+strings.ToLower(filters.Type))
	}
	return pairs
}

func preferencePairs(prefs *models.UserPreferences) []string {
	if prefs == nil || len(prefs.PreferredGenres) == 0 {
		return nil
	}
	genres := make([]string, len(prefs.PreferredGenres))
	for i, g := range prefs.PreferredGenres {
		genres[i] = strings.ToLower(g)
	}
	sort.Strings(genres)
	return []string{"prefs=" + strings.Join(genres, ",")}
}

func digest(pairs []string) string {
	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(sum[:])
}

// GetSearch returns the cached results for a key, or (nil, false) on miss.
func (c *ResultCache) GetSearch(ctx context.Context, key string) ([]models.RankedResult, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Search cache read failed")
		}
		return nil, false
	}
	var results []models.RankedResult
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.WithError(err).Warn("Search cache entry corrupt, discarding")
		return nil, false
	}
	return results, true
}

// SetSearch stores results under key with the search TTL.
func (c *ResultCache) SetSearch(ctx context.Context, key string, results []models.RankedResult) {
	c.set(ctx, key, results, c.config.SearchTTL)
}

// GetRecommendations returns cached content IDs for a key, or (nil, false).
func (c *ResultCache) GetRecommendations(ctx context.Context, key string) ([]string, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Recommendation cache read failed")
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		c.logger.WithError(err).Warn("Recommendation cache entry corrupt, discarding")
		return nil, false
	}
	return ids, true
}

// SetRecommendations stores content IDs under key with the recommendation TTL.
func (c *ResultCache) SetRecommendations(ctx context.Context, key string, ids []string) {
	c.set(ctx, key, ids, c.config.RecommendationsTTL)
}

// GetAnalytics returns a cached analytics payload, or (nil, false).
func (c *ResultCache) GetAnalytics(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Analytics cache read failed")
		}
		return nil, false
	}
	return data, true
}

// SetAnalytics stores an analytics payload with the analytics TTL.
func (c *ResultCache) SetAnalytics(ctx context.Context, key string, payload any) {
	c.set(ctx, key, payload, c.config.AnalyticsTTL)
}

// InvalidateAll drops every cached response. Called after a snapshot
// rebuild so stale generations never outlive their data.
func (c *ResultCache) InvalidateAll(ctx context.Context) {
	for _, pattern := range []string{"discovery:search:*", "discovery:recommend:*", "discovery:analytics:*"} {
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				c.logger.WithError(err).Warn("Cache invalidation delete failed")
			}
		}
		if err := iter.Err(); err != nil {
			c.logger.WithError(err).Warn("Cache invalidation scan failed")
		}
	}
}

func (c *ResultCache) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).Warn("Cache serialization failed")
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Cache write failed")
	}
}
