package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cvBuilder/internal/resume"
)

// redisKV is the subset of the go-redis client the store uses.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Redis keeps the snapshot in one redis string key with no expiry.
type Redis struct {
	client redisKV
	key    string
}

// NewRedis returns a store over client. An empty key uses DefaultKey.
func NewRedis(client redisKV, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) (resume.Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return resume.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return resume.Snapshot{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decode(raw)
}

func (r *Redis) Save(ctx context.Context, snap resume.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

var _ Store = (*Redis)(nil)
