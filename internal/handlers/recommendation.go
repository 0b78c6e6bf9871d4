package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/services"
	"github.com/reelwise/discovery/pkg/models"
)

type RecommendationHandler struct {
	engine  *services.DiscoveryEngine
	cache   *services.ResultCache
	metrics *services.Metrics
	logger  *logrus.Logger
}

func NewRecommendationHandler(
	engine *services.DiscoveryEngine,
	cache *services.ResultCache,
	metrics *services.Metrics,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		engine:  engine,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Get handles GET /api/v1/recommendations/:userId.
func (h *RecommendationHandler) Get(c *gin.Context) {
	req := models.RecommendRequest{
		UserID: c.Param("userId"),
		Intent: c.DefaultQuery("intent", models.IntentForYou),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			req.Limit = parsed
		}
	}
	if genresStr := c.Query("genres"); genresStr != "" {
		req.Preferences = &models.UserPreferences{
			PreferredGenres: strings.Split(genresStr, ","),
		}
	}
	req.Filters = filtersFromQuery(c)

	h.respond(c, &req)
}

// Post handles POST /api/v1/recommendations for callers that need the full
// request body, preferences and filters included.
func (h *RecommendationHandler) Post(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}
	if req.Intent == "" {
		req.Intent = models.IntentForYou
	}

	h.respond(c, &req)
}

func (h *RecommendationHandler) respond(c *gin.Context, req *models.RecommendRequest) {
	key := services.RecommendCacheKey(req)
	if cached, ok := h.cache.GetRecommendations(c.Request.Context(), key); ok {
		h.metrics.CacheHits.WithLabelValues("recommend", "hit").Inc()
		c.JSON(http.StatusOK, models.RecommendationResponse{
			UserID:      req.UserID,
			Intent:      req.Intent,
			ContentIDs:  cached,
			GeneratedAt: time.Now(),
			CacheHit:    true,
		})
		return
	}
	h.metrics.CacheHits.WithLabelValues("recommend", "miss").Inc()

	ids, err := h.engine.Recommend(req)
	if err != nil {
		if errors.Is(err, services.ErrIndexNotReady) {
			h.metrics.RecommendRequests.WithLabelValues(req.Intent, "not_ready").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{
					"code":    "INDEX_NOT_READY",
					"message": "Discovery index has not been built yet",
				},
			})
			return
		}
		h.metrics.RecommendRequests.WithLabelValues(req.Intent, "error").Inc()
		h.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to generate recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}

	h.metrics.RecommendRequests.WithLabelValues(req.Intent, "ok").Inc()
	h.cache.SetRecommendations(c.Request.Context(), key, ids)
	c.JSON(http.StatusOK, models.RecommendationResponse{
		UserID:      req.UserID,
		Intent:      req.Intent,
		ContentIDs:  ids,
		GeneratedAt: time.Now(),
		CacheHit:    false,
	})
}

func filtersFromQuery(c *gin.Context) *models.SearchFilters {
	filters := &models.SearchFilters{
		Genre: c.Query("genre"),
		Type:  c.Query("type"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filters.Year = year
		}
	}
	if ratingStr := c.Query("min_rating"); ratingStr != "" {
		if rating, err := strconv.ParseFloat(ratingStr, 64); err == nil {
			filters.MinRating = rating
		}
	}
	if filters.IsZero() {
		return nil
	}
	return filters
}
