package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/utsavjain246/shortify/internal/domain"
)

const keyPrefix = "link:"

// LinkCache is the resolution cache in front of the link store, keyed by
// short code. It stores whatever record it is given, stamped with the
// write time; interpreting activity or expiry is the resolver's job.
// Every entry carries a TTL, which bounds staleness from out-of-band
// store mutations. Concurrent writes of the same key are idempotent
// (identical record shape), so last-write-wins needs no locking.
type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func key(shortCode string) string {
	return fmt.Sprintf("%s%s", keyPrefix, shortCode)
}

// GetLink returns (nil, nil) on a miss; an error means the backend failed
// and the caller should degrade to the store.
func (r *LinkCache) GetLink(ctx context.Context, shortCode string) (*domain.CachedLink, error) {
	data, err := r.client.Get(ctx, key(shortCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var cached domain.CachedLink
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}

	return &cached, nil
}

func (r *LinkCache) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	cached := domain.CachedLink{
		Link:     *link,
		CachedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	if err := r.client.Set(ctx, key(link.ShortCode), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// DeleteLink evicts the entry for a code. Used on deactivation; eviction
// is best-effort since the TTL bounds staleness either way.
func (r *LinkCache) DeleteLink(ctx context.Context, shortCode string) error {
	if err := r.client.Del(ctx, key(shortCode)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
