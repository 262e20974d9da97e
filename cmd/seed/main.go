package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"deepchat/internal/catalog"
	"deepchat/internal/config"
	"deepchat/internal/domain/models"
	"deepchat/internal/repository/storage"
)

// sampleTurns are replayed into every seeded chat
var sampleTurns = [][2]string{
	{"What is a goroutine?", "A goroutine is a function running concurrently with other goroutines in the same address space."},
	{"And a channel?", "A channel is a typed conduit goroutines use to send and receive values."},
}

func main() {
	userID := flag.String("user", "user_dev", "owner of the seeded chats")
	email := flag.String("email", "dev@example.com", "email for the seeded user")
	name := flag.String("name", "Dev User", "display name for the seeded user")
	chatCount := flag.Int("chats", 3, "number of chats to create")
	clearData := flag.Bool("clear-data", false, "delete the user's chats instead of seeding")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// SAFETY: Prevent seeding or clearing in production
	if cfg.Environment == "prod" {
		log.Fatalf("🚫 BLOCKED: seed is not allowed in production environment")
	}
	if cfg.StorageDriver == config.StorageMemory {
		log.Fatalf("STORAGE_DRIVER=memory does not outlive this process, nothing to seed")
	}

	logger, logCloser := config.NewLogger(cfg)
	defer logCloser.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close(context.Background(), logger)

	if *clearData {
		n, err := clearChats(ctx, store, *userID)
		if err != nil {
			log.Fatalf("Failed to clear chats: %v", err)
		}
		log.Printf("🧹 Deleted %d chats for %s (storage: %s)", n, *userID, cfg.StorageDriver)
		return
	}

	registry, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	log.Printf("🌱 Seeding %s (environment: %s, storage: %s)", *userID, cfg.Environment, cfg.StorageDriver)
	if err := seed(ctx, store, registry.Labels(), *userID, *email, *name, *chatCount); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("✅ Seeded %d chats", *chatCount)
}

func seed(ctx context.Context, store *storage.Storage, labels []string, userID, email, name string, chatCount int) error {
	now := time.Now().UTC()
	if err := store.Users.UpsertUser(ctx, &models.User{
		ID:        userID,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	for i := 0; i < chatCount; i++ {
		created := now.Add(time.Duration(i-chatCount) * time.Hour)
		chat := &models.Chat{
			UserID:    userID,
			Name:      "New Chat " + labels[i%len(labels)],
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := store.Chats.CreateChat(ctx, chat); err != nil {
			return fmt.Errorf("create chat %d: %w", i+1, err)
		}

		ts := created
		for _, turn := range sampleTurns {
			ts = ts.Add(time.Minute)
			msgs := []models.Message{
				models.NewMessage(models.RoleUser, turn[0], ts),
				models.NewMessage(models.RoleAssistant, turn[1], ts.Add(time.Second)),
			}
			if _, err := store.Chats.AppendMessages(ctx, chat.ID, userID, msgs, ts.Add(time.Second)); err != nil {
				return fmt.Errorf("append to chat %s: %w", chat.ID, err)
			}
		}
	}
	return nil
}

func clearChats(ctx context.Context, store *storage.Storage, userID string) (int, error) {
	chats, err := store.Chats.ListChats(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, c := range chats {
		if err := store.Chats.DeleteChat(ctx, c.ID, userID); err != nil {
			return 0, fmt.Errorf("delete chat %s: %w", c.ID, err)
		}
	}
	return len(chats), nil
}
