package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"inkwell/api/internal/config"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

type GitHubProvider struct {
	conf *oauth2.Config
}

func NewGitHub(cfg config.OAuthConfig) *GitHubProvider {
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  callbackURL(cfg, "github"),
			Scopes:       []string{"read:user", "user:email"},
		},
	}
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("github code exchange: %w", err)
	}

	client := p.conf.Client(ctx, token)

	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(client, githubUserURL, &user); err != nil {
		return Profile{}, fmt.Errorf("github user: %w", err)
	}

	email := user.Email
	if email == "" {
		// the profile email is hidden for most accounts; the emails
		// endpoint needs the user:email scope
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, githubEmailsURL, &emails); err != nil {
			return Profile{}, fmt.Errorf("github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return Profile{}, fmt.Errorf("github profile: no verified email")
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}

	return Profile{
		Provider:    "github",
		ProviderID:  strconv.FormatInt(user.ID, 10),
		DisplayName: displayName,
		Email:       email,
	}, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
