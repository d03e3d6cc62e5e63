package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/marsad11223/product-explorer-api/internal/services"
)

func newDashboardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDashboardHandler(services.NewDashboardService(nil, time.Second))
	r.GET("/dashboard/interaction-trends", h.InteractionTrends)
	return r
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestInteractionTrendsParams(t *testing.T) {
	r := newDashboardRouter()

	t.Run("rejects_non_numeric_last_hours", func(t *testing.T) {
		w := getPath(r, "/dashboard/interaction-trends?lastHours=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid lastHours parameter")
	})

	t.Run("rejects_negative_last_hours", func(t *testing.T) {
		w := getPath(r, "/dashboard/interaction-trends?lastHours=-3")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero_window_returns_empty_result", func(t *testing.T) {
		// lastHours=0 short-circuits before the store is consulted.
		w := getPath(r, "/dashboard/interaction-trends?lastHours=0")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}
