package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"inkwell/api/internal/ids"
	"inkwell/api/internal/models"
	"inkwell/api/internal/oauth"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

// ErrInvalidCredentials is the uniform failure for unknown identity and
// wrong password alike, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityStore is the persistence contract the session core needs.
// *repository.UserRepository implements it.
type IdentityStore interface {
	Create(ctx context.Context, user models.User) error
	FindByLogin(ctx context.Context, login string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateRefreshTokenHash(ctx context.Context, id string, hash *string) error
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

// Claim is the minimal identity attached to tokens and requests.
type Claim struct {
	ID       string
	Username string
	Role     models.UserRole
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthResult struct {
	TokenPair
	User models.User
}

type AuthService struct {
	users   IdentityStore
	refresh *RefreshTokenStore
	issuer  *security.TokenIssuer
	log     zerolog.Logger
}

func NewAuthService(users IdentityStore, refresh *RefreshTokenStore, issuer *security.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		refresh: refresh,
		issuer:  issuer,
		log:     log,
	}
}

// Authenticate validates a username-or-email plus password pair and
// returns the minimal claim.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (Claim, error) {
	user, err := s.authenticate(ctx, login, password)
	if err != nil {
		return Claim{}, err
	}
	return Claim{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *AuthService) authenticate(ctx context.Context, login, password string) (models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// stored hash is unusable; surfaced as an opaque server fault
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("password verification failed")
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Login validates credentials and mints a fresh token pair, persisting
// the hash of the new refresh token.
func (s *AuthService) Login(ctx context.Context, login, password string) (AuthResult, error) {
	user, err := s.authenticate(ctx, login, password)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair: the presented raw refresh token must
// match the stored hash, and persisting the new pair invalidates it.
func (s *AuthService) Refresh(ctx context.Context, userID, rawRefreshToken string) (AuthResult, error) {
	if !s.refresh.Verify(ctx, userID, rawRefreshToken) {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh hash; outstanding refresh tokens
// stop verifying immediately.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.refresh.Clear(ctx, userID)
}

// Federate maps a provider profile onto the local identity, creating it
// on first login. An existing user keeps their stored role. A concurrent
// create racing on the email uniqueness constraint degrades to a lookup,
// so federation is idempotent.
func (s *AuthService) Federate(ctx context.Context, profile oauth.Profile) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return s.issueTokens(ctx, user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	// First social login: provision with a random placeholder password.
	// The plaintext is discarded here and never told to anyone, so the
	// password path stays unusable for this account.
	placeholder, err := security.HashPassword(uuid.NewString())
	if err != nil {
		return AuthResult{}, err
	}

	user = models.User{
		ID:           ids.New(),
		Email:        email,
		Username:     email,
		PasswordHash: placeholder,
		Role:         models.UserRoleViewer,
	}
	if profile.DisplayName != "" {
		name := profile.DisplayName
		user.FirstName = &name
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateUser) {
			return AuthResult{}, err
		}
		user, err = s.users.FindByEmail(ctx, email)
		if err != nil {
			return AuthResult{}, err
		}
	} else {
		s.log.Info().
			Str("user_id", user.ID).
			Str("provider", profile.Provider).
			Msg("user provisioned from social login")
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccess(user.ID, user.Username, string(user.Role))
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, err := s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.refresh.Persist(ctx, user.ID, refreshToken); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User: user,
	}, nil
}
