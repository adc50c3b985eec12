package security

import (
	"errors"
	"testing"
	"time"
)

func testIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", accessTTL, refreshTTL)
}

func TestAccessTokenRoundtrip(t *testing.T) {
	issuer := testIssuer(time.Minute, time.Hour)

	token, err := issuer.IssueAccess("usr_1", "alice", "admin")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.Subject != "usr_1" {
		t.Errorf("subject = %q, want usr_1", claims.Subject)
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want alice", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	issuer := testIssuer(time.Minute, time.Hour)

	token, err := issuer.IssueRefresh("usr_1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	claims, err := issuer.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.Subject != "usr_1" {
		t.Errorf("subject = %q, want usr_1", claims.Subject)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := testIssuer(-time.Minute, -time.Minute)

	access, err := issuer.IssueAccess("usr_1", "alice", "viewer")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuer.VerifyAccess(access); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyAccess(expired) err = %v, want ErrTokenExpired", err)
	}

	refresh, err := issuer.IssueRefresh("usr_1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := issuer.VerifyRefresh(refresh); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyRefresh(expired) err = %v, want ErrTokenExpired", err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	issuer := testIssuer(time.Minute, time.Hour)

	access, err := issuer.IssueAccess("usr_1", "alice", "viewer")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := issuer.IssueRefresh("usr_1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := issuer.VerifyRefresh(access); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyRefresh(access token) err = %v, want ErrTokenInvalid", err)
	}
	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyAccess(refresh token) err = %v, want ErrTokenInvalid", err)
	}
}

func TestForeignSecretRejected(t *testing.T) {
	token, err := testIssuer(time.Minute, time.Hour).IssueAccess("usr_1", "alice", "viewer")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	other := NewTokenIssuer("someone-else", "someone-else-2", time.Minute, time.Hour)
	if _, err := other.VerifyAccess(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyAccess(foreign secret) err = %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := testIssuer(time.Minute, time.Hour)

	for _, bad := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.VerifyAccess(bad); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccess(%q) err = %v, want ErrTokenInvalid", bad, err)
		}
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	issuer := testIssuer(time.Minute, time.Hour)

	a, err := issuer.IssueRefresh("usr_1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	b, err := issuer.IssueRefresh("usr_1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens for the same subject are identical")
	}
}
