package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/services"
	"github.com/reelwise/discovery/pkg/models"
)

type SearchHandler struct {
	engine   *services.DiscoveryEngine
	cache    *services.ResultCache
	metrics  *services.Metrics
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewSearchHandler(
	engine *services.DiscoveryEngine,
	cache *services.ResultCache,
	metrics *services.Metrics,
	logger *logrus.Logger,
) *SearchHandler {
	return &SearchHandler{
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger,
	}
}

type searchResponse struct {
	Results  []models.RankedResult `json:"results"`
	Total    int                   `json:"total"`
	CacheHit bool                  `json:"cache_hit"`
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	key := services.SearchCacheKey(&req)
	if cached, ok := h.cache.GetSearch(c.Request.Context(), key); ok {
		h.metrics.CacheHits.WithLabelValues("search", "hit").Inc()
		c.JSON(http.StatusOK, searchResponse{Results: cached, Total: len(cached), CacheHit: true})
		return
	}
	h.metrics.CacheHits.WithLabelValues("search", "miss").Inc()

	results, err := h.engine.Search(&req)
	if err != nil {
		if errors.Is(err, services.ErrIndexNotReady) {
			h.metrics.SearchRequests.WithLabelValues("not_ready").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{
					"code":    "INDEX_NOT_READY",
					"message": "Discovery index has not been built yet",
				},
			})
			return
		}
		h.metrics.SearchRequests.WithLabelValues("error").Inc()
		h.logger.WithError(err).Error("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SEARCH_FAILED",
				"message": "Failed to execute search",
			},
		})
		return
	}

	h.metrics.SearchRequests.WithLabelValues("ok").Inc()
	h.cache.SetSearch(c.Request.Context(), key, results)
	c.JSON(http.StatusOK, searchResponse{Results: results, Total: len(results), CacheHit: false})
}

// Suggest handles GET /api/v1/search/suggest.
func (h *SearchHandler) Suggest(c *gin.Context) {
	prefix := c.Query("q")

	limit := 5
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}

	suggestions, err := h.engine.Suggest(prefix, limit)
	if err != nil {
		if errors.Is(err, services.ErrIndexNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": gin.H{
					"code":    "INDEX_NOT_READY",
					"message": "Discovery index has not been built yet",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Suggest failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SUGGEST_FAILED",
				"message": "Failed to compute suggestions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuggestResponse{Suggestions: suggestions})
}
