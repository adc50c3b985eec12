package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"inkwell/api/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleProvider struct {
	conf *oauth2.Config
}

func NewGoogle(cfg config.OAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  callbackURL(cfg, "google"),
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("google code exchange: %w", err)
	}

	resp, err := p.conf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("google userinfo: status %d", resp.StatusCode)
	}

	var info struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Profile{}, fmt.Errorf("decode google userinfo: %w", err)
	}

	if info.Email == "" {
		return Profile{}, fmt.Errorf("google userinfo: no email")
	}

	displayName := info.GivenName
	if displayName == "" {
		displayName = info.Name
	}

	return Profile{
		Provider:    "google",
		ProviderID:  info.ID,
		DisplayName: displayName,
		Email:       info.Email,
	}, nil
}
