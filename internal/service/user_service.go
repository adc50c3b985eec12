package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"inkwell/api/internal/ids"
	"inkwell/api/internal/models"
	"inkwell/api/internal/security"
)

// UserStore widens IdentityStore with the account-management operations
// reserved for super-admins.
type UserStore interface {
	IdentityStore
	UpdateProfile(ctx context.Context, id string, firstName, lastName, photoURL *string) error
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
	List(ctx context.Context, limit, offset int, desc bool) ([]models.User, error)
	Search(ctx context.Context, term string, limit, offset int) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

type SignupInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a local identity with the default role. The password is
// hashed before the record is constructed; nothing downstream ever sees
// the plaintext.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return models.User{}, errors.New("email, username and password required")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         models.UserRoleViewer,
	}
	if first := strings.TrimSpace(strings.ToLower(input.FirstName)); first != "" {
		user.FirstName = &first
	}
	if last := strings.TrimSpace(strings.ToLower(input.LastName)); last != "" {
		user.LastName = &last
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ChangePassword verifies the old password before hashing and storing
// the new one. A wrong old password fails like any credential mismatch.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("password verification failed")
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, firstName, lastName *string) error {
	return s.users.UpdateProfile(ctx, userID, firstName, lastName, nil)
}

func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID, photoURL string) error {
	return s.users.UpdateProfile(ctx, userID, nil, nil, &photoURL)
}

// Invite provisions an account under a random throwaway password; the
// user is expected to go through a password change before first use.
// TODO: deliver the invite by email once an SMTP relay is provisioned.
func (s *UserService) Invite(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, errors.New("email required")
	}

	hash, err := security.HashPassword(uuid.NewString())
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		Username:     email,
		PasswordHash: hash,
		Role:         models.UserRoleViewer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", email).Msg("user invited")
	return user, nil
}

func (s *UserService) AssignRole(ctx context.Context, userID string, role models.UserRole) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	return s.users.UpdateRole(ctx, userID, role)
}

func (s *UserService) List(ctx context.Context, limit, offset int, desc bool) ([]models.User, error) {
	return s.users.List(ctx, limit, offset, desc)
}

func (s *UserService) Search(ctx context.Context, term string, limit, offset int) ([]models.User, error) {
	return s.users.Search(ctx, term, limit, offset)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}
