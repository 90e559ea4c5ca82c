package repository

import (
	"context"

	"github.com/vegandiet705/next-upload/infra"
)

// redisKV adapts the Redis client to the KV capability. Redis SETNX gives
// the atomic create-on-absent the asset store requires.
type redisKV struct {
	client *infra.RedisClient
}

func NewRedisKV(client *infra.RedisClient) KV {
	return &redisKV{client: client}
}

func (r *redisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.client.Get(ctx, key)
}

func (r *redisKV) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0)
}

func (r *redisKV) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	return r.client.SetNX(ctx, key, value, 0)
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	return r.client.Delete(ctx, key)
}

func (r *redisKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	return r.client.Keys(ctx, prefix+"*")
}
