package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GuestTracker records minted guest tokens in Redis. Guest tokens have no
// account behind them, so this key set is the only server-side record that
// they exist. Keys expire with the token itself.
// Key format: guest:<token_id>
type GuestTracker struct {
	client *redis.Client
}

// NewGuestTracker creates a GuestTracker wrapping the given Redis client.
func NewGuestTracker(client *redis.Client) *GuestTracker {
	return &GuestTracker{client: client}
}

// Record stores the token id until its expiry.
func (g *GuestTracker) Record(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := g.client.Set(ctx, g.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("record guest token: %w", err)
	}
	return nil
}

func (g *GuestTracker) key(tokenID string) string {
	return "guest:" + tokenID
}
