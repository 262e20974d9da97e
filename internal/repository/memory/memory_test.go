package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
)

func TestChatRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())

	chat := &models.Chat{UserID: "user_a", Name: "New Chat 🌟", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.CreateChat(ctx, chat))
	require.NotEmpty(t, chat.ID)

	got, err := repo.GetChat(ctx, chat.ID, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "New Chat 🌟", got.Name)
	assert.Empty(t, got.Messages)

	_, err = repo.GetChat(ctx, chat.ID, "user_b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.RenameChat(ctx, chat.ID, "user_b", "mine now", time.Now()), domain.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteChat(ctx, chat.ID, "user_b"), domain.ErrNotFound)
	_, err = repo.AppendMessages(ctx, chat.ID, "user_b", []models.Message{{Role: models.RoleUser, Content: "x"}}, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	others, err := repo.ListChats(ctx, "user_b")
	require.NoError(t, err)
	assert.Empty(t, others)

	got, err = repo.GetChat(ctx, chat.ID, "user_a")
	require.NoError(t, err)
	assert.Equal(t, "New Chat 🌟", got.Name)
	assert.Empty(t, got.Messages)
}

func TestChatRepository_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())

	chat := &models.Chat{UserID: "u"}
	require.NoError(t, repo.CreateChat(ctx, chat))

	later := time.Now().Add(time.Minute)
	require.NoError(t, repo.RenameChat(ctx, chat.ID, "u", "Trip plans", later))
	got, err := repo.GetChat(ctx, chat.ID, "u")
	require.NoError(t, err)
	assert.Equal(t, "Trip plans", got.Name)
	assert.True(t, got.UpdatedAt.Equal(later))

	require.NoError(t, repo.DeleteChat(ctx, chat.ID, "u"))
	assert.ErrorIs(t, repo.DeleteChat(ctx, chat.ID, "u"), domain.ErrNotFound)
}

func TestChatRepository_ReturnedChatsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())

	chat := &models.Chat{UserID: "u"}
	require.NoError(t, repo.CreateChat(ctx, chat))

	got, err := repo.GetChat(ctx, chat.ID, "u")
	require.NoError(t, err)
	got.Messages = append(got.Messages, models.Message{Role: models.RoleUser, Content: "local only"})
	got.Name = "changed"

	again, err := repo.GetChat(ctx, chat.ID, "u")
	require.NoError(t, err)
	assert.Empty(t, again.Messages)
	assert.NotEqual(t, "changed", again.Name)
}

func TestChatRepository_ConcurrentAppendsKeepPairsAdjacent(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(NewStore())

	chat := &models.Chat{UserID: "u"}
	require.NoError(t, repo.CreateChat(ctx, chat))

	const n = 50
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
		q, a := got.Messages[i], got.Messages[i+1]
		assert.Equal(t, models.RoleUser, q.Role)
		assert.Equal(t, models.RoleAssistant, a.Role)
		assert.Equal(t, "a"+q.Content[1:], a.Content)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", CreatedAt: created}))

	update := &models.User{ID: "user_1", Name: "Ada L", Email: "ada@example.com", CreatedAt: time.Now()}
	require.NoError(t, repo.UpsertUser(ctx, update))
	assert.True(t, update.CreatedAt.Equal(created))

	got, err := repo.GetUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L", got.Name)
	assert.True(t, got.CreatedAt.Equal(created))

	require.NoError(t, repo.DeleteUser(ctx, "user_1"))
	assert.ErrorIs(t, repo.DeleteUser(ctx, "user_1"), domain.ErrNotFound)
	_, err = repo.GetUser(ctx, "user_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	now := time.Now()

	require.NoError(t, repo.UpsertUser(ctx, &models.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", CreatedAt: now}))
	err := repo.UpsertUser(ctx, &models.User{ID: "user_2", Name: "Imposter", Email: "ada@example.com", CreatedAt: now})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.GetUser(ctx, "user_2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
