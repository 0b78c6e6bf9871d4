package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/services"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	logger    *logrus.Logger
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

// Overview handles GET /api/v1/analytics/overview.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analytics.Overview(c.Request.Context())
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
		h.logger.WithError(err).Error("Failed to build analytics overview")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "ANALYTICS_FAILED",
				"message": "Failed to build analytics overview",
			},
		})
		return
	}

	c.JSON(http.StatusOK, overview)
}
