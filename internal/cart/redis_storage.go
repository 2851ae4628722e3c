package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the full cart snapshot as a JSON blob under a single
// fixed key. A zero TTL keeps the cart forever; a positive one lets stale
// carts age out.
type RedisStorage struct {
	client *redis.Client
	cartID string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, cartID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		cartID: cartID,
		ttl:    ttl,
	}
}

func (r *RedisStorage) Load(ctx context.Context) (*domain.CartSnapshot, error) {
	data, err := r.client.Get(ctx, storageKey(r.cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.CartSnapshot
	if err2 := json.Unmarshal(data, &snapshot); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot failed: %w", err2)
	}

	return &snapshot, nil
}

func (r *RedisStorage) Save(ctx context.Context, snapshot *domain.CartSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}

	if err := r.client.Set(ctx, storageKey(r.cartID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func storageKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}
