package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"piercing-studio-site/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "studio:session:"

// redisClient is the part of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSessionStore keeps each session under its own key. Every save
// refreshes the key's TTL, so idle sessions expire on their own.
type RedisSessionStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisSessionStore(client redisClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func redisSessionKey(id uuid.UUID) string {
	return redisSessionPrefix + id.String()
}

func (r *RedisSessionStore) Get(ctx context.Context, id uuid.UUID) (*models.ViewState, error) {
	raw, err := r.client.Get(ctx, redisSessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var state models.ViewState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, id uuid.UUID, state *models.ViewState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisSessionKey(id), string(b), r.ttl).Err()
}

func (r *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, redisSessionKey(id)).Err()
}

// PruneIdle is a no-op; Redis expires idle keys itself.
func (r *RedisSessionStore) PruneIdle(context.Context, time.Time) (int64, error) {
	return 0, nil
}
