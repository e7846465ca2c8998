package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

type CacheRepository struct {
	Client *redis.Client
}

type ICacheRepository interface {
	Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

func NewCacheRepository(client *redis.Client) *CacheRepository {
	log.Println("🚀 Initialized Repository : Redis")
	return &CacheRepository{
		Client: client,
	}
}

func (r *CacheRepository) Set(ctx context.Context, key string, data []byte, expiredTime time.Duration) error {
	err := r.Client.Set(ctx, key, string(data), expiredTime).Err()
	if err != nil {
		log.Printf("Error setting Redis key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *CacheRepository) Get(ctx context.Context, key string) (string, error) {
	result, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	} else if err != nil {
		log.Printf("Error getting Redis key %s: %v", key, err)
		return "", err
	}
	return result, nil
}

func (r *CacheRepository) Del(ctx context.Context, key string) error {
	_, err := r.Client.Del(ctx, key).Result()
	if err != nil {
		log.Printf("Error deleting Redis key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *CacheRepository) TTL(ctx context.Context, key string) (time.Duration, error) {
	return r.Client.TTL(ctx, key).Result()
}
