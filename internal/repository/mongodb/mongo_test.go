package mongodb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
)

// connectTestStore connects to MONGODB_TEST_URI using a throwaway database
func connectTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := Connect(ctx, uri, "deepchat_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestChatRepository(t *testing.T) {
	store := connectTestStore(t)
	repo := NewChatRepository(store)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	chat := &models.Chat{UserID: "user_a", Name: "New Chat 🌟", Messages: []models.Message{}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateChat(ctx, chat))
	require.Len(t, chat.ID, 24)

	got, err := repo.GetChat(ctx, chat.ID, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "New Chat 🌟", got.Name)
	assert.Empty(t, got.Messages)

	_, err = repo.GetChat(ctx, chat.ID, "user_b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetChat(ctx, "not-an-object-id", "user_a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.RenameChat(ctx, chat.ID, "user_a", "Renamed", now.Add(time.Second)))
	assert.ErrorIs(t, repo.RenameChat(ctx, chat.ID, "user_b", "x", now), domain.ErrNotFound)

	updated, err := repo.AppendMessages(ctx, chat.ID, "user_a", []models.Message{
		models.NewMessage(models.RoleUser, "hi", now),
		models.NewMessage(models.RoleAssistant, "hello", now),
	}, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, models.RoleAssistant, updated.Messages[1].Role)

	list, err := repo.ListChats(ctx, "user_a")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteChat(ctx, chat.ID, "user_a"))
	assert.ErrorIs(t, repo.DeleteChat(ctx, chat.ID, "user_a"), domain.ErrNotFound)
}

func TestChatRepository_ConcurrentAppends(t *testing.T) {
	store := connectTestStore(t)
	repo := NewChatRepository(store)
	ctx := context.Background()

	chat := &models.Chat{UserID: "u", Name: "c", Messages: []models.Message{}, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.CreateChat(ctx, chat))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AppendMessages(ctx, chat.ID, "u", []models.Message{
				{Role: models.RoleUser, Content: fmt.Sprintf("q%d", i)},
				{Role: models.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
			}, time.Now())
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetChat(ctx, chat.ID, "u")
	require.NoError(t, err)
	require.Len(t, got.Messages, 2*n)
	for i := 0; i < len(got.Messages); i += 2 {
		assert.Equal(t, "a"+got.Messages[i].Content[1:], got.Messages[i+1].Content)
	}
}

func TestUserRepository(t *testing.T) {
	store := connectTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", CreatedAt: created, UpdatedAt: created}))
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: "user_1", Name: "Ada L", Email: "ada@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}))

	u, err := repo.GetUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", u.Name)
	assert.True(t, u.CreatedAt.Equal(created))

	require.NoError(t, repo.DeleteUser(ctx, "user_1"))
	assert.ErrorIs(t, repo.DeleteUser(ctx, "user_1"), domain.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := connectTestStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", CreatedAt: now, UpdatedAt: now}))
	err := repo.UpsertUser(ctx, &models.User{ID: "user_2", Name: "Imposter", Email: "ada@example.com", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
