package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/marketauth/domain"
)

// AuthMW validates opaque bearer tokens against the token store
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithBearer returns the bearer token middleware. On success it stores
// user_id, user_role (casbin subject form) and the presented plaintext
// token in the request context.
func (mw *AuthMW) WithBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		plaintext := tokenParts[1]
		client := domain.ClientInfo{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		user, err := mw.tokenSvc.Validate(c.Request.Context(), plaintext, client)
		if err != nil {
			if errors.Is(err, domain.ErrTokenInvalid) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token validation failed"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user_role", RoleSubject(user.Role))
		c.Set("bearer_token", plaintext)

		c.Next()
	}
}

// RoleSubject maps a user role to its casbin subject, e.g. CUSTOMER ->
// role_customer.
func RoleSubject(role string) string {
	return "role_" + strings.ToLower(role)
}
