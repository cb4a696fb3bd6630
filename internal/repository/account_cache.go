package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-account-service/internal/model"
)

const accountKeyPrefix = "account:"

// AccountCache is a read-through cache for public account views. A miss
// or any Redis failure falls back to the store; staleness is bounded by
// the configured TTL and by explicit invalidation on every mutation.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AccountCache{client: client, ttl: ttl}
}

func (c *AccountCache) Get(ctx context.Context, id int64) (model.AccountView, bool) {
	data, err := c.client.Get(ctx, accountKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return model.AccountView{}, false
	}
	if err != nil {
		// Redis being down must never fail a read; fall back to the store.
		return model.AccountView{}, false
	}

	var view model.AccountView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return model.AccountView{}, false
	}
	return view, true
}

func (c *AccountCache) Set(ctx context.Context, view model.AccountView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal account view: %w", err)
	}

	if err := c.client.Set(ctx, accountKey(view.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache account view: %w", err)
	}
	return nil
}

func (c *AccountCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, accountKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate account view: %w", err)
	}
	return nil
}

func accountKey(id int64) string {
	return fmt.Sprintf("%s%d", accountKeyPrefix, id)
}
