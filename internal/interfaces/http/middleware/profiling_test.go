package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consignmentgenie/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/ready")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	r := gin.New()

	handlerCalled := false
	r.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{Enabled: false}))
	r.GET("/api/v1/items", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
}

func TestProfilingMiddleware_SkipPaths(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"health_exact", "/health"},
		{"ready_exact", "/ready"},
		{"swagger_prefix", "/swagger/index.html"},
		{"item_route", "/api/v1/items"},
		{"health_subpath", "/health/check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()

			handlerCalled := false
			r.Use(middleware.Profiling())
			r.GET(tt.path, func(c *gin.Context) {
				handlerCalled = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, handlerCalled, "handler should run for %s", tt.path)
		})
	}
}

func TestProfilingMiddleware_WithTenantFromJWT(t *testing.T) {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, "shop-123")
		c.Next()
	})
	r.Use(middleware.Profiling())
	r.GET("/api/v1/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingMiddleware_TenantIDWrongType(t *testing.T) {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, 12345)
		c.Next()
	})
	r.Use(middleware.Profiling())
	r.GET("/api/v1/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	// Request proceeds without the tenant label.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingMiddleware_ContextPreserved(t *testing.T) {
	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Set("custom_key", "custom_value")
		c.Next()
	})
	r.Use(middleware.Profiling())
	r.GET("/api/v1/items", func(c *gin.Context) {
		value, exists := c.Get("custom_key")
		assert.True(t, exists)
		assert.Equal(t, "custom_value", value)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingMiddleware_ChainOrderPreserved(t *testing.T) {
	r := gin.New()

	var order []string

	r.Use(func(c *gin.Context) {
		order = append(order, "first")
		c.Next()
		order = append(order, "first_after")
	})
	r.Use(middleware.Profiling())
	r.Use(func(c *gin.Context) {
		order = append(order, "third")
		c.Next()
		order = append(order, "third_after")
	})
	r.GET("/api/v1/items", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"first", "third", "handler", "third_after", "first_after"}, order)
}

func TestProfilingMiddleware_VersionedRoutes(t *testing.T) {
	routes := []string{
		"/api/v1/items",
		"/api/v2/items",
		"/api/items",
		"/v1/providers",
	}

	for _, route := range routes {
		t.Run(route, func(t *testing.T) {
			r := gin.New()

			r.Use(middleware.Profiling())
			r.GET(route, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, route, nil))

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
