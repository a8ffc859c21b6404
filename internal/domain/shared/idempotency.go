package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed delivery IDs to prevent duplicate processing
type IdempotencyStore interface {
	// MarkProcessed marks a delivery as processed with a TTL
	// Returns true if the delivery was newly marked, false if already seen
	MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a delivery has already been processed
	IsProcessed(ctx context.Context, deliveryID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed delivery IDs
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
