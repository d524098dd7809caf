// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/permissions"

	"github.com/gin-gonic/gin"
)

// Context keys set by Authenticate.
const (
	CtxUserID      = "user_id"
	CtxUserName    = "user_name"
	CtxUserRole    = "user_role"
	CtxBranchID    = "user_branch_id"
	CtxPermissions = "user_permissions"
)

func abortError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"kind": kind, "message": message}})
}

// Authenticate validates the bearer token, resolves the role's permission
// set once and stores the request identity in the context. Nothing
// downstream re-reads the token or re-checks roles.
func Authenticate(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortError(c, http.StatusUnauthorized, "AUTH_ERROR", "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortError(c, http.StatusUnauthorized, "AUTH_ERROR", "Invalid token format")
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "AUTH_ERROR", "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxBranchID, claims.BranchID)
		c.Set(CtxPermissions, permissions.Resolve(claims.Role))

		c.Next()
	}
}

// RequirePermission gates a route on one permission from the catalog.
func RequirePermission(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxPermissions)
		if !exists {
			abortError(c, http.StatusInternalServerError, "AUTH_ERROR", "Permissions not resolved for request")
			return
		}

		granted, ok := value.(permissions.Set)
		if !ok || !granted.Has(name) {
			abortError(c, http.StatusForbidden, "PERMISSION_ERROR", "You do not have permission to perform this action")
			return
		}

		c.Next()
	}
}
