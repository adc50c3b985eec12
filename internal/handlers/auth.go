package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
	"inkwell/api/internal/oauth"
	"inkwell/api/internal/service"
)

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         userResponse `json:"user"`
}

// userResponse deliberately has no password or refresh hash field, so
// neither can leak through serialization.
type userResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	Username        string  `json:"username"`
	Role            string  `json:"role"`
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	ProfilePhotoURL *string `json:"profilePhotoUrl,omitempty"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		Role:            string(user.Role),
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfilePhotoURL: user.ProfilePhotoURL,
	}
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.setAuthCookies(c, result.TokenPair)
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	userID := c.GetString(middleware.ContextRefreshSubject)
	rawToken := c.GetString(middleware.ContextRefreshToken)

	result, err := h.auth.Refresh(c.Request.Context(), userID, rawToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		h.log.Error().Err(err).Msg("token refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.setAuthCookies(c, result.TokenPair)
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         toUserResponse(result.User),
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims.Subject); err != nil {
		h.log.Error().Err(err).Str("user_id", claims.Subject).Msg("logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.clearAuthCookies(c)
	c.Status(http.StatusOK)
}

const oauthStateTTL = 10 * time.Minute

func (h HandlerSet) SocialLogin(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_provider"})
		return
	}

	state, err := oauth.StateToken()
	if err != nil {
		h.log.Error().Err(err).Msg("state token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), "oauth:state:"+state, "1", oauthStateTTL).Err(); err != nil {
			h.log.Error().Err(err).Msg("state store failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
	}

	c.Redirect(http.StatusTemporaryRedirect, provider.AuthCodeURL(state))
}

func (h HandlerSet) SocialCallback(c *gin.Context) {
	provider, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_provider"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_code_or_state"})
		return
	}

	if h.cache != nil {
		deleted, err := h.cache.Del(c.Request.Context(), "oauth:state:"+state).Result()
		if err != nil || deleted == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_state"})
			return
		}
	}

	profile, err := provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.log.Warn().Err(err).Str("provider", c.Param("provider")).Msg("oauth exchange failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "oauth_exchange_failed"})
		return
	}

	result, err := h.auth.Federate(c.Request.Context(), profile)
	if err != nil {
		h.log.Error().Err(err).Str("provider", profile.Provider).Msg("federation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.setAuthCookies(c, result.TokenPair)
	c.Redirect(http.StatusFound, "/")
}

func (h HandlerSet) setAuthCookies(c *gin.Context, pair service.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieAccessToken, pair.AccessToken,
		int(h.issuer.AccessTTL().Seconds()), "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
	c.SetCookie(middleware.CookieRefreshToken, pair.RefreshToken,
		int(h.issuer.RefreshTTL().Seconds()), "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}

// clearAuthCookies re-sets both cookies to empty values with the same
// attributes, which is how the pair is revoked client-side.
func (h HandlerSet) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieAccessToken, "", -1, "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
	c.SetCookie(middleware.CookieRefreshToken, "", -1, "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}
