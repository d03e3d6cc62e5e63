package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/marsad11223/product-explorer-api/internal/services"
)

func newInteractionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// A nil collection is fine here: every request below fails validation
	// before the store is touched.
	h := NewInteractionHandler(services.NewInteractionService(nil, time.Second))
	r.POST("/interactions", h.Create)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateInteraction(t *testing.T) {
	r := newInteractionRouter()

	t.Run("rejects_malformed_json", func(t *testing.T) {
		w := postJSON(r, "/interactions", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_missing_session_id", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"interactionType":"view","productId":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing required fields")
	})

	t.Run("rejects_missing_interaction_type", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","productId":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_unknown_interaction_type", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","interactionType":"share","productId":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid interaction type")
	})

	t.Run("rejects_view_without_product_id", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","interactionType":"view"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_click_without_product_id", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","interactionType":"click"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_time_spend_without_duration", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","interactionType":"time_spend","productId":"p1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects_negative_time_spend", func(t *testing.T) {
		w := postJSON(r, "/interactions", `{"sessionId":"s1","interactionType":"time_spend","productId":"p1","timeSpend":-1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "non-negative")
	})
}
