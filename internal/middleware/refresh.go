package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/security"
)

const (
	// ContextRefreshSubject is the user id from a verified refresh token.
	ContextRefreshSubject = "refresh_subject"
	// ContextRefreshToken is the raw refresh token, needed downstream to
	// check it against the stored hash before rotation.
	ContextRefreshToken = "refresh_token_raw"
)

// RefreshAuth is the guard variant for the refresh endpoint: it extracts
// the refresh token instead of the access token and verifies it under
// the refresh-kind verifier. The stored-hash check happens in the
// handler's rotation call, which fails the request with 401 as well.
func RefreshAuth(issuer *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c, CookieRefreshToken)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		claims, err := issuer.VerifyRefresh(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ContextRefreshSubject, claims.Subject)
		c.Set(ContextRefreshToken, tokenStr)
		c.Next()
	}
}
