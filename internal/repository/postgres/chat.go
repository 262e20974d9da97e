package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

// PostgresChatRepository implements the ChatRepository interface.
// Messages live in a JSONB array column on the chat row.
type PostgresChatRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatRepository creates a new chat repository
func NewChatRepository(config *RepositoryConfig) repositories.ChatRepository {
	return &PostgresChatRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const chatColumns = "id, user_id, name, messages, created_at, updated_at"

func scanChat(row pgx.Row) (*models.Chat, error) {
	var chat models.Chat
	var raw []byte
	if err := row.Scan(&chat.ID, &chat.UserID, &chat.Name, &raw, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}
	chat.Messages = []models.Message{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &chat.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
	}
	return &chat, nil
}

func encodeMessages(msgs []models.Message) (string, error) {
	if msgs == nil {
		msgs = []models.Message{}
	}
	b, err := json.Marshal(msgs)
	if err != nil {
		return "", fmt.Errorf("encode messages: %w", err)
	}
	return string(b), nil
}

// CreateChat inserts a new chat with a generated ID
func (r *PostgresChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	messages, err := encodeMessages(chat.Messages)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
	`, r.tables.Chats)

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, chat.UserID, chat.Name, messages, chat.CreatedAt, chat.UpdatedAt); err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("chat id collision: %w", err)
		}
		return fmt.Errorf("create chat: %w", err)
	}

	chat.ID = id
	return nil
}

// GetChat retrieves a chat by ID scoped to the owner
func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, chatColumns, r.tables.Chats)

	chat, err := scanChat(r.pool.QueryRow(ctx, query, chatID, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, nil
}

// ListChats retrieves all chats for a user, most recently updated first
func (r *PostgresChatRepository) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, chatColumns, r.tables.Chats)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}

	return chats, nil
}

// RenameChat updates the name only
func (r *PostgresChatRepository) RenameChat(ctx context.Context, chatID, userID, name string, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chats)

	result, err := r.pool.Exec(ctx, query, chatID, userID, name, updatedAt)
	if err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// DeleteChat removes the chat
func (r *PostgresChatRepository) DeleteChat(ctx context.Context, chatID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Chats)

	result, err := r.pool.Exec(ctx, query, chatID, userID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return nil
}

// AppendMessages concatenates onto the JSONB array in a single UPDATE; the
// row lock serializes concurrent appends.
func (r *PostgresChatRepository) AppendMessages(ctx context.Context, chatID, userID string, messages []models.Message, updatedAt time.Time) (*models.Chat, error) {
	encoded, err := encodeMessages(messages)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET messages = messages || $3::jsonb, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING %s
	`, r.tables.Chats, chatColumns)

	chat, err := scanChat(r.pool.QueryRow(ctx, query, chatID, userID, encoded, updatedAt))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("append messages: %w", err)
	}
	return chat, nil
}
