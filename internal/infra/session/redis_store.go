package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Store keeps the identity behind a session id.
type Store interface {
	Create(ctx context.Context, id domain.Identity) (string, error)
	// Get returns (nil, nil) for an unknown or expired session.
	Get(ctx context.Context, sid string) (*domain.Identity, error)
	Delete(ctx context.Context, sid string) error
}

// redisClient is the part of *redis.Client the store needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Create(ctx context.Context, id domain.Identity) (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	sid := uuid.NewString()
	if err := s.client.Set(ctx, key(sid), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*domain.Identity, error) {
	if sid == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, key(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &id, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.client.Del(ctx, key(sid)).Err()
}

// NewRedisClient dials Redis and checks the connection.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

var _ Store = (*RedisStore)(nil)
