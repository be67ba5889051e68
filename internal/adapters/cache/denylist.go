package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/redis/go-redis/v9"
)

var (
	_ services.TokenDenylist = (*RedisDenylist)(nil)
	_ services.TokenDenylist = (*MemoryDenylist)(nil)
)

// RedisDenylist stores revoked token IDs with the token's remaining lifetime
// as TTL, so entries disappear once the token would be rejected anyway.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("denylist:%s", tokenID)
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := d.client.Set(ctx, denylistKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return n > 0, nil
}

// MemoryDenylist is the single-process fallback used when redis is not
// configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[tokenID] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.entries {
		if !now.Before(exp) {
			delete(d.entries, id)
		}
	}

	_, ok := d.entries[tokenID]
	return ok, nil
}
