package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"deepchat/internal/domain"
)

// isNoDocuments checks if error is a "no documents" error
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// isDuplicateKey checks if error is a unique index violation
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// parseChatID converts a hex id. Malformed ids cannot match any chat, so they
// are reported as not found rather than as a validation failure.
func parseChatID(chatID string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(chatID)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return oid, nil
}
