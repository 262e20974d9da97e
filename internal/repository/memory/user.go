package memory

import (
	"context"
	"fmt"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

type userRepository struct {
	store *Store
}

// NewUserRepository creates a user repository backed by store
func NewUserRepository(store *Store) repositories.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) UpsertUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, other := range r.store.users {
		if id != user.ID && other.Email == user.Email {
			return fmt.Errorf("%w: email %s belongs to another user", domain.ErrValidation, user.Email)
		}
	}

	stored := *user
	if existing, ok := r.store.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
		user.CreatedAt = existing.CreatedAt
		if stored.ImageURL == "" {
			stored.ImageURL = existing.ImageURL
		}
	}
	r.store.users[user.ID] = &stored
	return nil
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	delete(r.store.users, userID)
	return nil
}
