package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talenthub/internal/domain"
	"talenthub/internal/service"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token to a live session and stores the
// caller's identity in the gin context.
func AuthMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "Authorization header required", "MISSING_AUTH_HEADER")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Bearer token required", "INVALID_AUTH_FORMAT")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Token cannot be empty", "EMPTY_TOKEN")
			return
		}

		identity, err := authSvc.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "Invalid or expired token", "TOKEN_INVALID")
			return
		}

		c.Set(identityKey, identity)
	}
}

// RequireRole rejects callers whose role is not in the allowed set. It must
// run after AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			abortJSON(c, http.StatusUnauthorized, "Authentication required", "MISSING_IDENTITY")
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "Insufficient permissions", "FORBIDDEN")
	}
}

// IdentityFrom returns the identity set by AuthMiddleware, nil when absent.
func IdentityFrom(c *gin.Context) *domain.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.JSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
	c.Abort()
}
