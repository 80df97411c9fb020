package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs a handler has already seen so
// redelivered events are dropped instead of applied twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It reports true when the
	// ID was new and false when the event was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. After it
	// expires the same ID would be processed again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for 24 hours, which covers
// the outbox processor's retry window with room to spare.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
