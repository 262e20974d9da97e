package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"deepchat/internal/config"
	"deepchat/internal/domain/repositories"
	"deepchat/internal/repository/ledger"
	"deepchat/internal/repository/memory"
	"deepchat/internal/repository/mongodb"
	"deepchat/internal/repository/postgres"
)

// Storage bundles the repositories selected by STORAGE_DRIVER
type Storage struct {
	Chats  repositories.ChatRepository
	Users  repositories.UserRepository
	Ledger repositories.DeliveryLedger
	// Checkers feed the health route, keyed by backend name
	Checkers map[string]repositories.HealthChecker

	closers []func(context.Context) error
}

// Close releases every backend connection in reverse open order
func (s *Storage) Close(ctx context.Context, logger *slog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			logger.Warn("storage close failed", "error", err)
		}
	}
}

// Open connects the configured chat and user store and the webhook delivery
// ledger. Redis backs the ledger when REDIS_URL is set, otherwise an
// in-process cache does.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	s := &Storage{Checkers: map[string]repositories.HealthChecker{}}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StorageDriver {
	case config.StorageMongo:
		store, err := mongodb.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		s.Chats = mongodb.NewChatRepository(store)
		s.Users = mongodb.NewUserRepository(store)
		s.Checkers["mongodb"] = store
		s.closers = append(s.closers, store.Close)
		logger.Info("storage connected", "driver", cfg.StorageDriver, "database", cfg.Mongo.Database)

	case config.StoragePostgres:
		pool, err := postgres.CreateConnectionPool(connectCtx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error {
			pool.Close()
			return nil
		})

		tables := postgres.NewTableNames(cfg.Postgres.TablePrefix)
		if err := postgres.EnsureSchema(connectCtx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		s.Chats = postgres.NewChatRepository(repoConfig)
		s.Users = postgres.NewUserRepository(repoConfig)
		s.Checkers["postgres"] = postgres.NewHealthChecker(pool)
		logger.Info("storage connected",
			"driver", cfg.StorageDriver,
			"table_prefix", cfg.Postgres.TablePrefix,
		)

	case config.StorageMemory:
		store := memory.NewStore()
		s.Chats = memory.NewChatRepository(store)
		s.Users = memory.NewUserRepository(store)
		s.Checkers["memory"] = store
		logger.Warn("using in-memory storage, data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.Webhook.RedisURL != "" {
		rdb, err := ledger.NewRedisClient(connectCtx, cfg.Webhook.RedisURL)
		if err != nil {
			s.Close(ctx, logger)
			return nil, err
		}
		redisLedger := ledger.NewRedisLedger(rdb, cfg.Webhook.DedupeTTL)
		s.Ledger = redisLedger
		s.Checkers["redis"] = redisLedger
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
	} else {
		s.Ledger = ledger.NewCacheLedger(cfg.Webhook.DedupeTTL)
	}

	return s, nil
}
