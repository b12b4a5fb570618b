package cart

import (
	"context"
	"encoding/json"
	"time"

	"atelier_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const CartTTL = 30 * 24 * time.Hour // 30 jours

// RedisReplica est la réplique locale : blob JSON sous cart:<userID>,
// écrit immédiatement après chaque mutation.
type RedisReplica struct {
	Client *redis.Client
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (r *RedisReplica) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := r.Client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisReplica) Save(ctx context.Context, userID string, items []models.CartItem) error {
	if len(items) == 0 {
		return r.Clear(ctx, userID)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, cartKey(userID), data, CartTTL).Err()
}

func (r *RedisReplica) Clear(ctx context.Context, userID string) error {
	return r.Client.Del(ctx, cartKey(userID)).Err()
}
