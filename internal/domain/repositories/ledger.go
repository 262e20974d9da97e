package repositories

import "context"

// DeliveryLedger remembers webhook delivery IDs that were already applied
type DeliveryLedger interface {
	// Seen reports whether the delivery was recorded
	Seen(ctx context.Context, deliveryID string) (bool, error)

	// Record marks the delivery as applied
	Record(ctx context.Context, deliveryID string) error
}
