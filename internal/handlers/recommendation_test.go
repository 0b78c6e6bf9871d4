package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelwise/discovery/internal/services"
	"github.com/reelwise/discovery/pkg/models"
)

func newRecommendationTestRouter(t *testing.T, ready bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := handlerTestLogger()
	engine := services.NewDiscoveryEngine(handlerTestConfig(), logger)
	if ready {
		engine.Rebuild(handlerTestCatalog(), []models.InteractionRecord{
			{UserID: "u1", ContentID: "1", Rating: 5},
			{UserID: "u2", ContentID: "1", Rating: 5},
			{UserID: "u2", ContentID: "2", Rating: 5},
		})
	}

	handler := NewRecommendationHandler(engine, unreachableCache(logger), sharedMetrics(), logger)

	router := gin.New()
	router.GET("/recommendations/:userId", handler.Get)
	router.POST("/recommendations", handler.Post)
	return router
}

func TestRecommendationHandler_Get_Trending(t *testing.T) {
	router := newRecommendationTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?intent=trending&limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "trending", resp.Intent)
	assert.Equal(t, []string{"2", "1"}, resp.ContentIDs)
	assert.False(t, resp.CacheHit)
}

func TestRecommendationHandler_Get_DefaultIntentIsForYou(t *testing.T) {
	router := newRecommendationTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.IntentForYou, resp.Intent)
	assert.NotEmpty(t, resp.ContentIDs)
}

func TestRecommendationHandler_Get_IndexNotReady(t *testing.T) {
	router := newRecommendationTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "INDEX_NOT_READY")
}

func TestRecommendationHandler_Get_FiltersFromQuery(t *testing.T) {
	router := newRecommendationTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/recommendations/u1?intent=trending&year=2010", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2"}, resp.ContentIDs)
}

func TestRecommendationHandler_Post_InvalidBody(t *testing.T) {
	router := newRecommendationTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST_BODY")
}
