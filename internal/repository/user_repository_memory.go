package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"inkwell/api/internal/models"
)

// MemoryUserRepository is a map-backed stand-in for UserRepository,
// used by tests. It keeps the same matching rules as the SQL queries:
// emails compare case-insensitively, usernames exactly.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
	order []string

	// CreateHook, when set, runs before an insert and may veto it.
	// Lets tests inject unique-violation races and storage faults.
	CreateHook func(models.User) error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (m *MemoryUserRepository) Create(_ context.Context, user models.User) error {
	if m.CreateHook != nil {
		if err := m.CreateHook(user); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if sameEmail(u.Email, user.Email) || u.Username == user.Username {
			return ErrDuplicateUser
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *MemoryUserRepository) FindByLogin(_ context.Context, login string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if sameEmail(u.Email, login) || u.Username == login {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *MemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if sameEmail(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryUserRepository) UpdateRefreshTokenHash(_ context.Context, id string, hash *string) error {
	return m.update(id, func(u *models.User) {
		u.RefreshTokenHash = hash
	})
}

func (m *MemoryUserRepository) UpdatePassword(_ context.Context, id string, hash []byte) error {
	return m.update(id, func(u *models.User) {
		u.PasswordHash = hash
	})
}

func (m *MemoryUserRepository) UpdateProfile(_ context.Context, id string, firstName, lastName, photoURL *string) error {
	return m.update(id, func(u *models.User) {
		if firstName != nil {
			u.FirstName = firstName
		}
		if lastName != nil {
			u.LastName = lastName
		}
		if photoURL != nil {
			u.ProfilePhotoURL = photoURL
		}
	})
}

func (m *MemoryUserRepository) UpdateRole(_ context.Context, id string, role models.UserRole) error {
	return m.update(id, func(u *models.User) {
		u.Role = role
	})
}

func (m *MemoryUserRepository) update(id string, apply func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	apply(&u)
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return nil
}

func (m *MemoryUserRepository) List(_ context.Context, limit, offset int, desc bool) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.User, 0, len(m.order))
	for _, id := range m.order {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return window(out, limit, offset), nil
}

func (m *MemoryUserRepository) Search(_ context.Context, term string, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(term)
	matches := func(field *string) bool {
		return field != nil && strings.Contains(strings.ToLower(*field), needle)
	}

	var out []models.User
	for _, id := range m.order {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			matches(u.FirstName) || matches(u.LastName) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return window(out, limit, offset), nil
}

func (m *MemoryUserRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func window(users []models.User, limit, offset int) []models.User {
	if offset >= len(users) {
		return []models.User{}
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users
}
