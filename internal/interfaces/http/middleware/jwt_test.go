package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/consignmentgenie/backend/internal/infrastructure/auth"
	"github.com/consignmentgenie/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newOwnerTokenPair(t *testing.T, jwtService *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()

	input := auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "owner@shop.test",
		Role:     "owner",
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

// serveWithAuth routes GET /items through the given middleware, capturing
// the request context if the handler runs.
func serveWithAuth(t *testing.T, mw gin.HandlerFunc, authHeader string, inspect func(c *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	router.Use(mw)
	router.GET("/items", func(c *gin.Context) {
		if inspect != nil {
			inspect(c)
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newOwnerTokenPair(t, jwtService)

	var claims *auth.Claims
	rec := serveWithAuth(t, JWTAuthMiddleware(jwtService), "Bearer "+pair.AccessToken, func(c *gin.Context) {
		claims = GetJWTClaims(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
}

func TestJWTAuthRejectsBadCredentials(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newOwnerTokenPair(t, jwtService)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no authorization header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bearer with no token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token on an access endpoint", "Bearer " + pair.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithAuth(t, JWTAuthMiddleware(jwtService), tt.authHeader, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Hour,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
	pair, _ := newOwnerTokenPair(t, jwtService)

	rec := serveWithAuth(t, JWTAuthMiddleware(jwtService), "Bearer "+pair.AccessToken, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthSkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	cfg := DefaultJWTConfig(jwtService)
	cfg.SkipPaths = append(cfg.SkipPaths, "/shop/catalog")
	cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/photos")

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	open := []string{
		"/shop/catalog",
		"/photos/items/42/front.jpg",
		"/health",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	}
	for _, path := range open {
		router.GET(path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	for _, path := range open {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, "expected %s to be reachable without a token", path)
		})
	}
}

func TestJWTAuthPopulatesContext(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newOwnerTokenPair(t, jwtService)

	var userID, tenantID, email, role string
	rec := serveWithAuth(t, JWTAuthMiddleware(jwtService), "Bearer "+pair.AccessToken, func(c *gin.Context) {
		userID = GetJWTUserID(c)
		tenantID = GetJWTTenantID(c)
		email = GetJWTEmail(c)
		role = GetJWTRole(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, input.UserID.String(), userID)
	assert.Equal(t, input.TenantID.String(), tenantID)
	assert.Equal(t, input.Email, email)
	assert.Equal(t, input.Role, role)
}

func TestJWTAuthProviderClaims(t *testing.T) {
	jwtService := newTestJWTService()

	providerID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:   uuid.New(),
		UserID:     uuid.New(),
		Email:      "consignor@shop.test",
		Role:       "provider",
		ProviderID: &providerID,
	})
	require.NoError(t, err)

	var got string
	rec := serveWithAuth(t, JWTAuthMiddleware(jwtService), "Bearer "+pair.AccessToken, func(c *gin.Context) {
		got = GetJWTProviderID(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, providerID.String(), got)
}

func TestClaimGettersOnBareContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTTenantID(c))
	assert.Empty(t, GetJWTEmail(c))
	assert.Empty(t, GetJWTRole(c))
	assert.Empty(t, GetJWTProviderID(c))
}

func TestMustGetJWTClaimsPanicsWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Panics(t, func() {
		MustGetJWTClaims(c)
	})
}

func TestOptionalJWTAuth(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newOwnerTokenPair(t, jwtService)

	tests := []struct {
		name       string
		authHeader string
		wantClaims bool
	}{
		{"anonymous shopper", "", false},
		{"signed in shopper", "Bearer " + pair.AccessToken, true},
		{"stale or forged token browses anonymously", "Bearer not-a-jwt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims *auth.Claims
			rec := serveWithAuth(t, OptionalJWTAuthMiddleware(jwtService), tt.authHeader, func(c *gin.Context) {
				claims = GetJWTClaims(c)
			})

			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.wantClaims {
				require.NotNil(t, claims)
				assert.Equal(t, input.UserID.String(), claims.UserID)
			} else {
				assert.Nil(t, claims)
			}
		})
	}
}

func TestJWTAuthCustomOnError(t *testing.T) {
	jwtService := newTestJWTService()

	called := false
	cfg := DefaultJWTConfig(jwtService)
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
	}

	rec := serveWithAuth(t, JWTAuthMiddlewareWithConfig(cfg), "", nil)

	assert.True(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
