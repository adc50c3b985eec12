package repository

import (
	"context"
	"errors"
	"testing"

	"inkwell/api/internal/models"
)

func TestMemoryFindByLoginMatchesEmailCaseInsensitively(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, models.User{ID: "usr_1", Email: "alice@example.com", Username: "alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, login := range []string{"alice@example.com", "Alice@Example.com", "ALICE@EXAMPLE.COM", "alice"} {
		u, err := repo.FindByLogin(ctx, login)
		if err != nil {
			t.Errorf("FindByLogin(%q): %v", login, err)
			continue
		}
		if u.ID != "usr_1" {
			t.Errorf("FindByLogin(%q) = %q, want usr_1", login, u.ID)
		}
	}

	// Username matching stays exact.
	if _, err := repo.FindByLogin(ctx, "ALICE"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByLogin(ALICE) err = %v, want ErrUserNotFound", err)
	}
}

func TestMemoryFindByEmailCaseInsensitive(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, models.User{ID: "usr_1", Email: "alice@example.com", Username: "alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "Alice@Example.COM"); err != nil {
		t.Errorf("FindByEmail mixed case: %v", err)
	}
}

func TestMemoryCreateDuplicateDetection(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, models.User{ID: "usr_1", Email: "alice@example.com", Username: "alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Email collides regardless of case; username collides exactly.
	if err := repo.Create(ctx, models.User{ID: "usr_2", Email: "ALICE@example.com", Username: "other"}); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("mixed-case email dup err = %v, want ErrDuplicateUser", err)
	}
	if err := repo.Create(ctx, models.User{ID: "usr_3", Email: "other@example.com", Username: "alice"}); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("username dup err = %v, want ErrDuplicateUser", err)
	}
}
