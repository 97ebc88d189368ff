// Package cache keeps recently generated recipe cards so a later swipe can
// save the full card from just its id.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recipeswipers/recipeswipe/internal/types"
)

// DefaultTTL is how long a generated card stays retrievable.
const DefaultTTL = 24 * time.Hour

// ErrMiss is returned when no card is cached under the id.
var ErrMiss = errors.New("recipe not cached")

// RecipeCache stores cards by id.
type RecipeCache interface {
	Put(ctx context.Context, card types.RecipeCard) error
	Get(ctx context.Context, id string) (types.RecipeCard, error)
}

// RedisCache stores cards as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cardKey(id string) string {
	return fmt.Sprintf("recipe:card:%s", id)
}

// Put saves a recipe card to Redis
func (c *RedisCache) Put(ctx context.Context, card types.RecipeCard) error {
	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}
	if err := c.client.Set(ctx, cardKey(card.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save card to Redis: %w", err)
	}
	return nil
}

// Get retrieves a recipe card from Redis
func (c *RedisCache) Get(ctx context.Context, id string) (types.RecipeCard, error) {
	data, err := c.client.Get(ctx, cardKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.RecipeCard{}, ErrMiss
	}
	if err != nil {
		return types.RecipeCard{}, fmt.Errorf("failed to get card from Redis: %w", err)
	}

	var card types.RecipeCard
	if err := json.Unmarshal(data, &card); err != nil {
		return types.RecipeCard{}, fmt.Errorf("failed to unmarshal card: %w", err)
	}
	return card, nil
}

type memoryEntry struct {
	card    types.RecipeCard
	expires time.Time
}

// MemoryCache is the in-process fallback when no redis is configured.
// Expired entries are dropped lazily on access and on Put.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Put(_ context.Context, card types.RecipeCard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, id)
		}
	}
	c.entries[card.ID] = memoryEntry{card: card, expires: now.Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, id string) (types.RecipeCard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return types.RecipeCard{}, ErrMiss
	}
	if c.now().After(e.expires) {
		delete(c.entries, id)
		return types.RecipeCard{}, ErrMiss
	}
	return e.card, nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
