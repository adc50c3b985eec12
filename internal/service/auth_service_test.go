package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inkwell/api/internal/models"
	"inkwell/api/internal/oauth"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

func newAuthService(store IdentityStore) *AuthService {
	log := zerolog.Nop()
	issuer := security.NewTokenIssuer("test-access", "test-refresh", time.Minute, time.Hour)
	return NewAuthService(store, NewRefreshTokenStore(store, log), issuer, log)
}

func seedUser(t *testing.T, store *repository.MemoryUserRepository, email, username, password string, role models.UserRole) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{
		ID:           "usr_" + username,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func storedCount(t *testing.T, store *repository.MemoryUserRepository) int {
	t.Helper()
	users, err := store.List(context.Background(), 0, 0, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return len(users)
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleViewer)
	svc := newAuthService(store)
	ctx := context.Background()

	_, unknownErr := svc.Authenticate(ctx, "nobody@example.com", "whatever")
	_, wrongErr := svc.Authenticate(ctx, "alice@example.com", "not-the-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestAuthenticateEmptyInputs(t *testing.T) {
	svc := newAuthService(repository.NewMemoryUserRepository())
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "", "password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty login err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateEmailIsCaseInsensitive(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleViewer)
	svc := newAuthService(store)
	ctx := context.Background()

	claim, err := svc.Authenticate(ctx, "Alice@Example.COM", "hunter22222")
	if err != nil {
		t.Fatalf("Authenticate with mixed-case email: %v", err)
	}
	if claim.ID != user.ID {
		t.Errorf("claim id = %q, want %q", claim.ID, user.ID)
	}

	// Usernames stay exact.
	if _, err := svc.Authenticate(ctx, "ALICE", "hunter22222"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("mixed-case username err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginIssuesPairAndPersistsHash(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleEditor)
	svc := newAuthService(store)

	res, err := svc.Login(context.Background(), "alice", "hunter22222")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected both tokens to be set")
	}
	if res.User.ID != user.ID {
		t.Errorf("result user = %q, want %q", res.User.ID, user.ID)
	}

	stored, _ := store.GetByID(context.Background(), user.ID)
	if stored.RefreshTokenHash == nil {
		t.Fatal("refresh token hash not persisted")
	}
	ok, err := security.VerifyPassword(res.RefreshToken, []byte(*stored.RefreshTokenHash))
	if err != nil || !ok {
		t.Fatalf("stored hash does not match issued refresh token (ok=%v err=%v)", ok, err)
	}
	if *stored.RefreshTokenHash == res.RefreshToken {
		t.Fatal("raw refresh token persisted instead of its hash")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleViewer)
	svc := newAuthService(store)
	ctx := context.Background()

	first, err := svc.Login(ctx, "alice", "hunter22222")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	second, err := svc.Refresh(ctx, user.ID, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh did not rotate the token")
	}

	// The superseded token must be dead.
	if _, err := svc.Refresh(ctx, user.ID, first.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("stale refresh token err = %v, want ErrInvalidCredentials", err)
	}
	// The current one still works.
	if _, err := svc.Refresh(ctx, user.ID, second.RefreshToken); err != nil {
		t.Errorf("current refresh token rejected: %v", err)
	}
}

func TestRefreshWithoutSession(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleViewer)
	svc := newAuthService(store)
	ctx := context.Background()

	// Never logged in: refresh hash is nil.
	if _, err := svc.Refresh(ctx, user.ID, "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("refresh with no session err = %v, want ErrInvalidCredentials", err)
	}
	// Unknown user.
	if _, err := svc.Refresh(ctx, "usr_ghost", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("refresh for unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleViewer)
	svc := newAuthService(store)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice", "hunter22222")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	stored, _ := store.GetByID(ctx, user.ID)
	if stored.RefreshTokenHash != nil {
		t.Error("refresh hash still set after logout")
	}
	if _, err := svc.Refresh(ctx, user.ID, res.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("refresh after logout err = %v, want ErrInvalidCredentials", err)
	}
}

func TestFederateProvisionsOnFirstLogin(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	svc := newAuthService(store)
	ctx := context.Background()

	res, err := svc.Federate(ctx, oauth.Profile{
		Provider:    "google",
		ProviderID:  "g-123",
		DisplayName: "Alice",
		Email:       "Alice@Example.com",
	})
	if err != nil {
		t.Fatalf("Federate: %v", err)
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased alice@example.com", res.User.Email)
	}
	if res.User.Role != models.UserRoleViewer {
		t.Errorf("provisioned role = %q, want viewer", res.User.Role)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Error("expected a token pair on first social login")
	}
	if n := storedCount(t, store); n != 1 {
		t.Errorf("store holds %d users, want 1", n)
	}
}

func TestFederateIsIdempotentAndKeepsRole(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	existing := seedUser(t, store, "alice@example.com", "alice", "hunter22222", models.UserRoleAdmin)
	svc := newAuthService(store)
	ctx := context.Background()

	profile := oauth.Profile{Provider: "github", ProviderID: "gh-9", Email: "alice@example.com"}

	first, err := svc.Federate(ctx, profile)
	if err != nil {
		t.Fatalf("Federate: %v", err)
	}
	second, err := svc.Federate(ctx, profile)
	if err != nil {
		t.Fatalf("Federate again: %v", err)
	}

	if first.User.ID != existing.ID || second.User.ID != existing.ID {
		t.Errorf("federation resolved to %q/%q, want existing %q", first.User.ID, second.User.ID, existing.ID)
	}
	if first.User.Role != models.UserRoleAdmin {
		t.Errorf("existing role changed to %q", first.User.Role)
	}
	if n := storedCount(t, store); n != 1 {
		t.Errorf("store holds %d users, want 1", n)
	}
}

func TestFederateLosingCreateRaceDegradesToLookup(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	svc := newAuthService(store)
	ctx := context.Background()

	// The hook inserts the "winning" concurrent user and then fails the
	// create with the duplicate error, the way a unique violation would.
	store.CreateHook = func(models.User) error {
		store.CreateHook = nil
		winner := models.User{
			ID:       "usr_winner",
			Email:    "race@example.com",
			Username: "race@example.com",
			Role:     models.UserRoleViewer,
		}
		if err := store.Create(ctx, winner); err != nil {
			t.Fatalf("insert winner: %v", err)
		}
		return repository.ErrDuplicateUser
	}

	res, err := svc.Federate(ctx, oauth.Profile{Provider: "google", Email: "race@example.com"})
	if err != nil {
		t.Fatalf("Federate: %v", err)
	}
	if res.User.ID != "usr_winner" {
		t.Errorf("federation resolved to %q, want the concurrently created usr_winner", res.User.ID)
	}
}

func TestFederateRequiresEmail(t *testing.T) {
	svc := newAuthService(repository.NewMemoryUserRepository())
	if _, err := svc.Federate(context.Background(), oauth.Profile{Provider: "github", ProviderID: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Federate without email err = %v, want ErrInvalidCredentials", err)
	}
}
