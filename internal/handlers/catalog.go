package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/database"
	"github.com/reelwise/discovery/internal/messaging"
	"github.com/reelwise/discovery/internal/validation"
	"github.com/reelwise/discovery/pkg/models"
)

type CatalogHandler struct {
	repo     *database.CatalogRepository
	bus      *messaging.MessageBus
	schemas  *validation.SchemaValidator
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewCatalogHandler(
	repo *database.CatalogRepository,
	bus *messaging.MessageBus,
	schemas *validation.SchemaValidator,
	logger *logrus.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		repo:     repo,
		bus:      bus,
		schemas:  schemas,
		validate: validator.New(),
		logger:   logger,
	}
}

// UpsertContent handles POST /api/v1/content. The item is persisted and a
// catalog event is published; the snapshot picks it up on the next rebuild.
func (h *CatalogHandler) UpsertContent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.schemas.ValidateContentItem(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var item models.ContentItem
	if err := json.Unmarshal(body, &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}
	if err := h.validate.Struct(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if err := h.repo.UpsertItem(c.Request.Context(), &item); err != nil {
		h.logger.WithError(err).WithField("content_id", item.ID).Error("Failed to persist content item")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CONTENT_PERSIST_FAILED",
				"message": "Failed to store content item",
			},
		})
		return
	}

	if err := h.bus.PublishContentUpsert(&item); err != nil {
		// The row is committed, the rebuild is just delayed until the next
		// successfully published event.
		h.logger.WithError(err).WithField("content_id", item.ID).Warn("Failed to publish catalog event")
	}

	c.JSON(http.StatusAccepted, gin.H{
		"content_id": item.ID,
		"status":     "accepted",
	})
}

// RecordInteraction handles POST /api/v1/interactions.
func (h *CatalogHandler) RecordInteraction(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.schemas.ValidateInteraction(body); !result.Valid {
		c.JSON(http.StatusBadRequest, result.ToAPIError())
		return
	}

	var rec models.InteractionRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Invalid request body format",
			},
		})
		return
	}
	if err := h.validate.Struct(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	if err := h.repo.RecordInteraction(c.Request.Context(), &rec); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    rec.UserID,
			"content_id": rec.ContentID,
		}).Error("Failed to persist interaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERACTION_PERSIST_FAILED",
				"message": "Failed to store interaction",
			},
		})
		return
	}

	if err := h.bus.PublishInteraction(&rec); err != nil {
		h.logger.WithError(err).Warn("Failed to publish interaction event")
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
	})
}
