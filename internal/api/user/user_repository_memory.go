package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/FACorreiaa/go-recipes-api/internal/types"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps users in process memory. Used by the memory storage driver and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]types.User
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]types.User)}
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return types.User{}, fmt.Errorf("%w: %s", types.ErrUserNotFound, username)
	}
	return u, nil
}

func (r *MemoryRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[username]
	return ok, nil
}

func (r *MemoryRepository) Insert(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return types.User{}, fmt.Errorf("%w: %s", types.ErrUserAlreadyExists, user.Username)
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = user
	return user, nil
}
