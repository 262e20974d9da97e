package repositories

import "context"

// HealthChecker is implemented by storage backends that can report liveness
type HealthChecker interface {
	Ping(ctx context.Context) error
}
