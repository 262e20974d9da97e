// Package ledger records webhook delivery ids so redeliveries can be skipped.
package ledger

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"deepchat/internal/domain/repositories"
)

// CacheLedger keeps delivery ids in process memory. It is the fallback when
// no Redis URL is configured and does not survive restarts.
type CacheLedger struct {
	cache *cache.Cache
}

// NewCacheLedger creates a ledger whose entries expire after ttl
func NewCacheLedger(ttl time.Duration) repositories.DeliveryLedger {
	return &CacheLedger{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (l *CacheLedger) Seen(ctx context.Context, deliveryID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, found := l.cache.Get(deliveryID)
	return found, nil
}

func (l *CacheLedger) Record(ctx context.Context, deliveryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.cache.Set(deliveryID, struct{}{}, cache.DefaultExpiration)
	return nil
}
