package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Fuzara/cashcraft/internal/storage"
)

const usersKey = "cashcraft:users"

// KVRepository persists user accounts as a single JSON document
// through the storage abstraction, so every configured backend can
// hold them without its own schema.
type KVRepository struct {
	mu      sync.Mutex
	backend storage.Store
}

// NewKVRepository creates a user repository over the given backend.
func NewKVRepository(backend storage.Store) *KVRepository {
	return &KVRepository{backend: backend}
}

func (r *KVRepository) load(ctx context.Context) ([]*User, error) {
	data, err := r.backend.Get(ctx, usersKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []*User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	var users []*User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *KVRepository) save(ctx context.Context, users []*User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := r.backend.Set(ctx, usersKey, data); err != nil {
		return fmt.Errorf("failed to write users: %w", err)
	}
	return nil
}

func (r *KVRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrUserAlreadyExists
		}
	}
	return r.save(ctx, append(users, user))
}

func (r *KVRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *KVRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *KVRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = user
			return r.save(ctx, users)
		}
	}
	return ErrUserNotFound
}

func (r *KVRepository) Exists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
