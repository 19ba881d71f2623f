package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "parkspotter:session:"

type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	raw, err := r.client.Get(ctx, redisKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(r.now()) {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Save stores s with a TTL matching its expiry; sessions without expiry never expire in Redis.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.client.Set(ctx, redisKey(s.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
