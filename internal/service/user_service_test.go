package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"inkwell/api/internal/models"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

func newUserService(store UserStore) *UserService {
	return NewUserService(store, zerolog.Nop())
}

func TestSignupHashesPasswordAndDefaultsRole(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	svc := newUserService(store)

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:    "Bob@Example.com",
		Username: "bob",
		Password: "hunter22222",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if user.Email != "bob@example.com" {
		t.Errorf("email = %q, want lowercased bob@example.com", user.Email)
	}
	if user.Role != models.UserRoleViewer {
		t.Errorf("role = %q, want viewer", user.Role)
	}
	if bytes.Contains(user.PasswordHash, []byte("hunter22222")) {
		t.Fatal("password stored in the clear")
	}
	ok, err := security.VerifyPassword("hunter22222", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify (ok=%v err=%v)", ok, err)
	}
}

func TestSignupRejectsDuplicate(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	svc := newUserService(store)
	ctx := context.Background()

	input := SignupInput{Email: "bob@example.com", Username: "bob", Password: "hunter22222"}
	if _, err := svc.Signup(ctx, input); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	if _, err := svc.Signup(ctx, input); !errors.Is(err, repository.ErrDuplicateUser) {
		t.Errorf("second Signup err = %v, want ErrDuplicateUser", err)
	}

	// Same address in different case is still the same account.
	input.Username = "bob2"
	input.Email = "BOB@example.com"
	if _, err := svc.Signup(ctx, input); !errors.Is(err, repository.ErrDuplicateUser) {
		t.Errorf("mixed-case duplicate Signup err = %v, want ErrDuplicateUser", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "bob@example.com", "bob", "old-password1", models.UserRoleViewer)
	svc := newUserService(store)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, user.ID, "not-the-old-one", "new-password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password err = %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "old-password1", "new-password1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	stored, _ := store.GetByID(ctx, user.ID)
	if ok, _ := security.VerifyPassword("new-password1", stored.PasswordHash); !ok {
		t.Error("new password does not verify")
	}
	if ok, _ := security.VerifyPassword("old-password1", stored.PasswordHash); ok {
		t.Error("old password still verifies")
	}
}

func TestInviteProvisionsViewerWithUnusablePassword(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	svc := newUserService(store)

	user, err := svc.Invite(context.Background(), "Invitee@Example.com")
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if user.Email != "invitee@example.com" {
		t.Errorf("email = %q, want lowercased invitee@example.com", user.Email)
	}
	if user.Role != models.UserRoleViewer {
		t.Errorf("role = %q, want viewer", user.Role)
	}
	if len(user.PasswordHash) == 0 {
		t.Error("invited user has no password hash")
	}
}

func TestAssignRoleValidatesRole(t *testing.T) {
	store := repository.NewMemoryUserRepository()
	user := seedUser(t, store, "bob@example.com", "bob", "hunter22222", models.UserRoleViewer)
	svc := newUserService(store)
	ctx := context.Background()

	if err := svc.AssignRole(ctx, user.ID, "overlord"); err == nil {
		t.Fatal("unknown role accepted")
	}
	if err := svc.AssignRole(ctx, user.ID, models.UserRoleEditor); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}

	stored, _ := store.GetByID(ctx, user.ID)
	if stored.Role != models.UserRoleEditor {
		t.Errorf("role = %q, want editor", stored.Role)
	}
}
