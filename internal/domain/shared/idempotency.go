package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so a retried create is not applied twice
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes key so a failed request can be retried with it
	Forget(ctx context.Context, key string) error

	Close() error
}
