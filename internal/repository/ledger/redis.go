package ledger

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "deepchat:webhook:delivery:"

// RedisLedger stores delivery ids as expiring keys so every server instance
// shares one view of applied deliveries.
type RedisLedger struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisClient parses url, connects and pings
func NewRedisClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewRedisLedger creates a ledger on an existing client. Keys expire after ttl.
func NewRedisLedger(rdb *goredis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{rdb: rdb, ttl: ttl}
}

func (l *RedisLedger) Seen(ctx context.Context, deliveryID string) (bool, error) {
	n, err := l.rdb.Exists(ctx, keyPrefix+deliveryID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (l *RedisLedger) Record(ctx context.Context, deliveryID string) error {
	if err := l.rdb.SetNX(ctx, keyPrefix+deliveryID, time.Now().UnixMilli(), l.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable
func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
