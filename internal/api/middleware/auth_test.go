// server/internal/api/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/permissions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(service *auth.Service, permission string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", Authenticate(service))
	if permission != "" {
		group.Use(RequirePermission(permission))
	}
	group.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString(CtxUserID),
			"role":   c.GetString(CtxUserRole),
		})
	})
	return router
}

func issueToken(t *testing.T, service *auth.Service, role string) string {
	t.Helper()
	token, err := service.GenerateToken(role+"-1a2b3c4d", "Test User", role, "main")
	require.NoError(t, err)
	return token
}

func TestAuthenticateMissingHeader(t *testing.T) {
	router := newTestRouter(auth.NewService("secret", "1h"), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_ERROR")
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	service := auth.NewService("secret", "1h")
	router := newTestRouter(service, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", issueToken(t, service, "admin")) // no Bearer prefix
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	router := newTestRouter(auth.NewService("secret", "1h"), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateStoresIdentity(t *testing.T) {
	service := auth.NewService("secret", "1h")
	router := newTestRouter(service, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, service, "technician"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "technician-1a2b3c4d")
}

func TestRequirePermissionDenied(t *testing.T) {
	service := auth.NewService("secret", "1h")
	router := newTestRouter(service, "qa:review")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, service, "technician"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PERMISSION_ERROR")
}

func TestRequirePermissionGranted(t *testing.T) {
	service := auth.NewService("secret", "1h")
	router := newTestRouter(service, "qa:review")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, service, "supervisor"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolvedSetMatchesRole(t *testing.T) {
	set := permissions.Resolve("supervisor")
	assert.True(t, set.Has("qa:review"))
	assert.False(t, set.Has("payroll:write"))
}
