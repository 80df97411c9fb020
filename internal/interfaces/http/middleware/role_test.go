package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consignmentgenie/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRoleTestRouter(jwtService *auth.JWTService, roles ...string) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func roleToken(t *testing.T, jwtService *auth.JWTService, role string) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Email:    "user@shop.test",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return pair.AccessToken
}

func TestRequireRole_Allowed(t *testing.T) {
	jwtService := newTestJWTService()
	router := newRoleTestRouter(jwtService, "owner", "staff")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+roleToken(t, jwtService, "staff"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Denied(t *testing.T) {
	jwtService := newTestJWTService()
	router := newRoleTestRouter(jwtService, "owner")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+roleToken(t, jwtService, "shopper"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequireRole("owner"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_CustomOnDenied(t *testing.T) {
	jwtService := newTestJWTService()

	deniedCalled := false
	cfg := RoleConfig{
		OnDenied: func(c *gin.Context, requiredRoles []string) {
			deniedCalled = true
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"hidden": true})
		},
	}

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", RequireRoleWithConfig(cfg, "owner"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+roleToken(t, jwtService, "provider"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.True(t, deniedCalled)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
