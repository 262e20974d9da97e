package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

// ChatRepository implements repositories.ChatRepository
type ChatRepository struct {
	store *Store
}

// NewChatRepository creates a new chat repository
func NewChatRepository(store *Store) repositories.ChatRepository {
	return &ChatRepository{store: store}
}

// ownedBy builds the id+owner filter every scoped operation uses
func ownedBy(oid bson.ObjectID, userID string) bson.D {
	return bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: userID}}
}

// CreateChat inserts a new chat and sets its ID
func (r *ChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	doc := chatDoc{
		ID:        bson.NewObjectID(),
		UserID:    chat.UserID,
		Name:      chat.Name,
		Messages:  toMessageDocs(chat.Messages),
		CreatedAt: chat.CreatedAt.UTC(),
		UpdatedAt: chat.UpdatedAt.UTC(),
	}

	if _, err := r.store.chats().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	chat.ID = doc.ID.Hex()
	return nil
}

// GetChat retrieves a chat by ID scoped to the owner
func (r *ChatRepository) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	oid, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	var doc chatDoc
	err = r.store.chats().FindOne(ctx, ownedBy(oid, userID)).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}

	return doc.toModel(), nil
}

// ListChats retrieves every chat owned by the user
func (r *ChatRepository) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	cursor, err := r.store.chats().Find(ctx, bson.D{{Key: "userId", Value: userID}})
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []chatDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode chats: %w", err)
	}

	chats := make([]models.Chat, 0, len(docs))
	for i := range docs {
		chats = append(chats, *docs[i].toModel())
	}
	return chats, nil
}

// RenameChat sets only the name and updatedAt
func (r *ChatRepository) RenameChat(ctx context.Context, chatID, userID, name string, updatedAt time.Time) error {
	oid, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: name},
		{Key: "updatedAt", Value: updatedAt.UTC()},
	}}}

	result, err := r.store.chats().UpdateOne(ctx, ownedBy(oid, userID), update)
	if err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// DeleteChat removes the chat
func (r *ChatRepository) DeleteChat(ctx context.Context, chatID, userID string) error {
	oid, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	result, err := r.store.chats().DeleteOne(ctx, ownedBy(oid, userID))
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// AppendMessages pushes all messages in one $push/$each so concurrent appends
// serialize on the document and each batch stays contiguous.
func (r *ChatRepository) AppendMessages(ctx context.Context, chatID, userID string, messages []models.Message, updatedAt time.Time) (*models.Chat, error) {
	oid, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "message", Value: bson.D{{Key: "$each", Value: toMessageDocs(messages)}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: updatedAt.UTC()}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc chatDoc
	err = r.store.chats().FindOneAndUpdate(ctx, ownedBy(oid, userID), update, opts).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("append messages: %w", err)
	}

	return doc.toModel(), nil
}
