package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(maxBytes int64, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(maxBytes))
	if handler == nil {
		handler = func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	}
	router.POST("/api/v1/items/photos", handler)
	return router
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes a body under the cap", func(t *testing.T) {
		router := bodyLimitRouter(1024, nil)

		req := httptest.NewRequest("POST", "/api/v1/items/photos", bytes.NewReader([]byte(`{"caption":"front"}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a declared length over the cap", func(t *testing.T) {
		router := bodyLimitRouter(100, nil)

		req := httptest.NewRequest("POST", "/api/v1/items/photos", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("bodyless requests pass", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/api/v1/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps chunked uploads while reading", func(t *testing.T) {
		router := bodyLimitRouter(50, func(c *gin.Context) {
			_, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("POST", "/api/v1/items/photos", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
