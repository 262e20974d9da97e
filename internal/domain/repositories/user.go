package repositories

import (
	"context"

	"deepchat/internal/domain/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// UpsertUser creates the user if absent, otherwise overwrites its profile
	// fields. CreatedAt is kept from the first write.
	UpsertUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by identity-provider ID
	// Returns domain.ErrNotFound if not found
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// DeleteUser removes a user
	// Returns domain.ErrNotFound if not found
	DeleteUser(ctx context.Context, userID string) error
}
