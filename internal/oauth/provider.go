package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"inkwell/api/internal/config"
)

// Profile is the normalized identity triple resolved from a provider.
// It is used only to locate or create a local user and is never stored.
type Profile struct {
	Provider    string
	ProviderID  string
	DisplayName string
	Email       string
}

// Provider exchanges an authorization code for a normalized profile.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Registry maps provider names to their implementations. The variant set
// is closed: google and github.
type Registry map[string]Provider

func NewRegistry(cfg config.OAuthConfig) Registry {
	r := Registry{}
	if cfg.Google.ClientID != "" {
		r["google"] = NewGoogle(cfg)
	}
	if cfg.GitHub.ClientID != "" {
		r["github"] = NewGitHub(cfg)
	}
	return r
}

func (r Registry) Get(name string) (Provider, bool) {
	p, ok := r[name]
	return p, ok
}

// StateToken returns a random CSRF state nonce for the authorization
// redirect.
func StateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func callbackURL(cfg config.OAuthConfig, provider string) string {
	return fmt.Sprintf("%s/api/v1/auth/social/%s/callback", cfg.RedirectBase, provider)
}
