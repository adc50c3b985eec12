package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/security"
)

const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"

	// ContextClaims holds the verified security.AccessClaims for the
	// request.
	ContextClaims = "auth_claims"
)

// extractToken prefers the http-only cookie and falls back to a bearer
// Authorization header.
func extractToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Auth verifies the access token and attaches the claim to the request
// context. It fails closed: no valid token, no handler.
func Auth(issuer *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, CookieAccessToken)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		claims, err := issuer.VerifyAccess(tokenStr)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, security.ErrTokenExpired) {
				code = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		c.Set(ContextClaims, *claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims attached by Auth.
func ClaimsFrom(c *gin.Context) (security.AccessClaims, bool) {
	val, exists := c.Get(ContextClaims)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := val.(security.AccessClaims)
	return claims, ok
}
