// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/Josey34/multivendor-api-project/internal/domain/shared"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/response"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Auth validates the bearer access token and stores the caller identity
func Auth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authorization header required")
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			response.Fail(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// VendorOnly rejects callers that do not act for a vendor shop
func VendorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authentication required")
			return
		}
		if !identity.IsVendor() {
			response.Fail(c, http.StatusForbidden, shared.CodeForbidden, "Vendor access required")
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Auth
func CurrentIdentity(c *gin.Context) (shared.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return shared.Identity{}, false
	}
	identity, ok := value.(shared.Identity)
	return identity, ok
}
