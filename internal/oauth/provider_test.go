package oauth

import (
	"strings"
	"testing"

	"inkwell/api/internal/config"
)

func TestNewRegistryOnlyRegistersConfiguredProviders(t *testing.T) {
	empty := NewRegistry(config.OAuthConfig{})
	if len(empty) != 0 {
		t.Errorf("empty config produced %d providers", len(empty))
	}

	r := NewRegistry(config.OAuthConfig{
		RedirectBase: "https://api.example.com",
		Google:       config.OAuthProviderConfig{ClientID: "gid", ClientSecret: "gsec"},
	})
	if _, ok := r.Get("google"); !ok {
		t.Error("google not registered despite client id")
	}
	if _, ok := r.Get("github"); ok {
		t.Error("github registered without a client id")
	}
	if _, ok := r.Get("myspace"); ok {
		t.Error("unknown provider resolved")
	}
}

func TestAuthCodeURLCarriesStateAndCallback(t *testing.T) {
	r := NewRegistry(config.OAuthConfig{
		RedirectBase: "https://api.example.com",
		Google:       config.OAuthProviderConfig{ClientID: "gid", ClientSecret: "gsec"},
	})
	google, _ := r.Get("google")

	url := google.AuthCodeURL("nonce-123")
	if !strings.Contains(url, "state=nonce-123") {
		t.Errorf("auth url %q missing state", url)
	}
	if !strings.Contains(url, "callback") {
		t.Errorf("auth url %q missing redirect callback", url)
	}
}

func TestStateTokenIsRandom(t *testing.T) {
	a, err := StateToken()
	if err != nil {
		t.Fatalf("StateToken: %v", err)
	}
	b, err := StateToken()
	if err != nil {
		t.Fatalf("StateToken: %v", err)
	}
	if a == b {
		t.Fatal("two state tokens are identical")
	}
	if len(a) < 32 {
		t.Errorf("state token %q shorter than expected", a)
	}
}
