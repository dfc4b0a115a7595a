package users

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/server/models"
)

// MemoryRepository keeps users in process memory. It enforces the same
// uniqueness rules as the SQL schema.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User // by username
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, fmt.Errorf("%w: username or email already registered", common.ErrConstraintViolation)
		}
	}

	stored := clone(user)
	stored.Roles = models.NormalizeRoles(user.Roles)
	r.users[user.Username] = stored
	return user, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			u.LastLoginAt = &at
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *MemoryRepository) SetRoles(ctx context.Context, username string, roles []string) error {
	return r.update(username, func(u *models.User) { u.Roles = models.NormalizeRoles(roles) })
}

func (r *MemoryRepository) SetDisabled(ctx context.Context, username string, disabled bool) error {
	return r.update(username, func(u *models.User) { u.Disabled = disabled })
}

func (r *MemoryRepository) update(username string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return common.ErrNotFound
	}
	fn(u)
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
