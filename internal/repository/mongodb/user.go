package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

// UpsertUser creates or overwrites the profile; createdAt is only set on insert
func (r *UserRepository) UpsertUser(ctx context.Context, user *models.User) error {
	set := bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "updatedAt", Value: user.UpdatedAt.UTC()},
	}
	if user.ImageURL != "" {
		set = append(set, bson.E{Key: "image_url", Value: user.ImageURL})
	}

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: user.CreatedAt.UTC()}}},
	}

	_, err := r.store.users().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: user.ID}},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: email %s belongs to another user", domain.ErrValidation, user.Email)
		}
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by identity-provider ID
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var doc userDoc
	err := r.store.users().FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return doc.toModel(), nil
}

// DeleteUser removes a user
func (r *UserRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.store.users().DeleteOne(ctx, bson.D{{Key: "_id", Value: userID}})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
