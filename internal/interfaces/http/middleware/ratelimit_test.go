package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc, method, path string) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.Handle(method, path, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func hit(router *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("pos-terminal-1"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("pos-terminal-1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		assert.True(t, limiter.Allow("10.0.0.2"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("window expiry refills tokens", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.False(t, limiter.Allow("10.0.0.3"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("10.0.0.3"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("10.0.0.4"))

		limiter.Allow("10.0.0.4")
		limiter.Allow("10.0.0.4")

		assert.Equal(t, 3, limiter.Remaining("10.0.0.4"))
	})

	t.Run("remaining resets after the window", func(t *testing.T) {
		limiter := NewRateLimiter(3, 50*time.Millisecond)

		limiter.Allow("10.0.0.5")
		assert.Equal(t, 2, limiter.Remaining("10.0.0.5"))

		time.Sleep(60 * time.Millisecond)

		assert.Equal(t, 3, limiter.Remaining("10.0.0.5"))
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes requests within the limit", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(3, time.Minute)), "GET", "/api/v1/items")

		for i := 0; i < 3; i++ {
			w := hit(router, "GET", "/api/v1/items", "")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("rejects with 429 once exhausted", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)), "GET", "/api/v1/items")

		hit(router, "GET", "/api/v1/items", "")
		hit(router, "GET", "/api/v1/items", "")
		w := hit(router, "GET", "/api/v1/items", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(10, time.Minute)), "GET", "/api/v1/items")

		w := hit(router, "GET", "/api/v1/items", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("keys by client IP", func(t *testing.T) {
		router := limitedRouter(RateLimit(NewRateLimiter(1, time.Minute)), "GET", "/api/v1/items")

		w1 := hit(router, "GET", "/api/v1/items", "192.168.1.1:40000")
		assert.Equal(t, http.StatusOK, w1.Code)

		w2 := hit(router, "GET", "/api/v1/items", "192.168.1.1:40001")
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)

		w3 := hit(router, "GET", "/api/v1/items", "192.168.1.2:40000")
		assert.Equal(t, http.StatusOK, w3.Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("throttles per cart session", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		bySession := func(c *gin.Context) string {
			return c.GetHeader("X-Cart-Session")
		}
		router := limitedRouter(RateLimitByKey(limiter, bySession), "POST", "/shop/cart/items")

		send := func(session string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/shop/cart/items", nil)
			req.Header.Set("X-Cart-Session", session)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusOK, send("sess-1").Code)
		assert.Equal(t, http.StatusTooManyRequests, send("sess-1").Code)
		assert.Equal(t, http.StatusOK, send("sess-2").Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows attempts within the limit", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)), "POST", "/auth/login")

		for i := 0; i < 5; i++ {
			w := hit(router, "POST", "/auth/login", "192.168.1.100:12345")
			assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
		}
	})

	t.Run("blocks with auth specific code and Retry-After", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)), "POST", "/auth/login")

		hit(router, "POST", "/auth/login", "192.168.1.100:12345")
		w := hit(router, "POST", "/auth/login", "192.168.1.100:12345")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("exposes rate limit headers on success", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)), "POST", "/auth/login")

		w := hit(router, "POST", "/auth/login", "192.168.1.100:12345")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("tracks each IP separately", func(t *testing.T) {
		router := limitedRouter(AuthRateLimit(NewRateLimiter(2, time.Minute)), "POST", "/auth/login")

		hit(router, "POST", "/auth/login", "192.168.1.1:12345")
		hit(router, "POST", "/auth/login", "192.168.1.1:12345")

		w1 := hit(router, "POST", "/auth/login", "192.168.1.1:12345")
		assert.Equal(t, http.StatusTooManyRequests, w1.Code)

		w2 := hit(router, "POST", "/auth/login", "192.168.1.2:12345")
		assert.Equal(t, http.StatusOK, w2.Code)
	})

	t.Run("auth prefix keeps login attempts separate when a limiter is shared", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		router := gin.New()
		authGroup := router.Group("/auth")
		authGroup.Use(AuthRateLimit(limiter))
		authGroup.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		apiGroup := router.Group("/api/v1")
		apiGroup.Use(RateLimit(limiter))
		apiGroup.GET("/items", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": []string{}})
		})

		hit(router, "POST", "/auth/login", "192.168.1.100:12345")
		hit(router, "POST", "/auth/login", "192.168.1.100:12345")

		w1 := hit(router, "POST", "/auth/login", "192.168.1.100:12345")
		assert.Equal(t, http.StatusTooManyRequests, w1.Code)

		w2 := hit(router, "GET", "/api/v1/items", "192.168.1.100:12345")
		assert.Equal(t, http.StatusOK, w2.Code)
	})
}
