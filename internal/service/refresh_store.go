package service

import (
	"context"

	"github.com/rs/zerolog"

	"inkwell/api/internal/security"
)

// RefreshTokenStore keeps one hashed refresh token per user on the user
// row. The raw token is hashed before it is written and never persisted.
type RefreshTokenStore struct {
	store IdentityStore
	log   zerolog.Logger
}

func NewRefreshTokenStore(store IdentityStore, log zerolog.Logger) *RefreshTokenStore {
	return &RefreshTokenStore{store: store, log: log}
}

// Persist hashes rawToken and overwrites the stored hash, rotating out
// whatever token was active before.
func (s *RefreshTokenStore) Persist(ctx context.Context, userID, rawToken string) error {
	hash, err := security.HashPassword(rawToken)
	if err != nil {
		return err
	}
	encoded := string(hash)
	return s.store.UpdateRefreshTokenHash(ctx, userID, &encoded)
}

// Verify checks rawToken against the stored hash. A missing user or a
// nil stored hash is a plain verification failure, never an error.
// Rotation stays with the caller: mint a new token and Persist it.
func (s *RefreshTokenStore) Verify(ctx context.Context, userID, rawToken string) bool {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	if user.RefreshTokenHash == nil {
		return false
	}

	ok, err := security.VerifyPassword(rawToken, []byte(*user.RefreshTokenHash))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("refresh hash verification failed")
		return false
	}
	return ok
}

// Clear drops the stored hash, ending the session.
func (s *RefreshTokenStore) Clear(ctx context.Context, userID string) error {
	return s.store.UpdateRefreshTokenHash(ctx, userID, nil)
}
