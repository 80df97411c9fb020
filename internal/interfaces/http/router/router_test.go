package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(status int, body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(status, body)
	}
}

func TestNewRouterDefaults(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := NewDomainGroup("items", "/items")
	g.GET("", echo(http.StatusOK, "items"))
	r.Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v2/items").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, "GET", "/api/v1/items").Code)
}

func TestRegisterQueuesWithoutMounting(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("items", "/items")
	g.GET("", echo(http.StatusOK, "items"))
	r.Register(g)

	assert.Len(t, r.registrars, 1)
	assert.Equal(t, http.StatusNotFound, serve(engine, "GET", "/api/v1/items").Code)

	r.Setup()
	assert.Equal(t, http.StatusOK, serve(engine, "GET", "/api/v1/items").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("providers", "/providers")
		assert.Equal(t, "providers", g.Name())
		assert.Equal(t, "/providers", g.Prefix())
	})

	t.Run("routes all verbs", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items")
		g.GET("", echo(http.StatusOK, "list"))
		g.POST("", echo(http.StatusCreated, "created"))
		g.PUT("/:id", echo(http.StatusOK, "updated"))
		g.PATCH("/:id/status", echo(http.StatusOK, "status set"))
		g.DELETE("/:id", echo(http.StatusNoContent, ""))

		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			status int
		}{
			{"GET", "/api/v1/items", http.StatusOK},
			{"POST", "/api/v1/items", http.StatusCreated},
			{"PUT", "/api/v1/items/42", http.StatusOK},
			{"PATCH", "/api/v1/items/42/status", http.StatusOK},
			{"DELETE", "/api/v1/items/42", http.StatusNoContent},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("payouts", "/payouts")
		g.Use(func(c *gin.Context) {
			c.Header("X-Org", "org-happy-rags")
			c.Next()
		})
		g.GET("", echo(http.StatusOK, "ok"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, "GET", "/api/v1/payouts")
		assert.Equal(t, "org-happy-rags", w.Header().Get("X-Org"))
	})

	t.Run("middleware covers subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("providers", "/providers")
		g.Use(func(c *gin.Context) {
			c.Header("X-Scoped", "yes")
			c.Next()
		})
		items := g.Group("items", "/:providerId/items")
		items.GET("", echo(http.StatusOK, "provider items"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, "GET", "/api/v1/providers/p-1/items")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Scoped"))
	})

	t.Run("nested groups mount under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("store", "/store")

		cart := g.Group("cart", "/cart")
		cart.GET("", echo(http.StatusOK, "cart contents"))

		checkout := g.Group("checkout", "/checkout")
		checkout.POST("", echo(http.StatusCreated, "order placed"))

		g.RegisterRoutes(engine.Group("/api/v1"))

		w1 := serve(engine, "GET", "/api/v1/store/cart")
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "cart contents", w1.Body.String())

		w2 := serve(engine, "POST", "/api/v1/store/checkout")
		assert.Equal(t, http.StatusCreated, w2.Code)
		assert.Equal(t, "order placed", w2.Body.String())
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	items := NewDomainGroup("items", "/items")
	items.GET("", echo(http.StatusOK, "items"))

	statements := NewDomainGroup("statements", "/statements")
	statements.GET("", echo(http.StatusOK, "statements"))

	r.Register(items).Register(statements).Setup()

	w1 := serve(engine, "GET", "/api/v1/items")
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "items", w1.Body.String())

	w2 := serve(engine, "GET", "/api/v1/statements")
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "statements", w2.Body.String())
}

func TestChainedDeclarations(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("payouts", "/payouts")
	g.GET("", echo(http.StatusOK, "list")).
		POST("", echo(http.StatusCreated, "batch created")).
		POST("/:id/finalize", echo(http.StatusOK, "finalized"))

	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/payouts"},
		{"POST", "/api/v1/payouts"},
		{"POST", "/api/v1/payouts/b-1/finalize"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Less(t, w.Code, 300, "%s %s", tt.method, tt.path)
	}
}
