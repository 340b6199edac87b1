package cart

import (
	"context"
	"errors"

	"github.com/hermes-labs/catalog-service/pkg/clients"
	"github.com/hermes-labs/catalog-service/pkg/e"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStorage хранит корзину в Redis. Значение живет без TTL:
// корзина переживает перезапуск сессии.
type RedisStorage struct {
	client *clients.RedisClient
}

func NewRedisStorage(client *clients.RedisClient) *RedisStorage {
	return &RedisStorage{client: client}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}

		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := r.client.Client.Del(ctx, key).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
