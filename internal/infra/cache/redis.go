package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this service writes.
const DefaultKeyPrefix = "articles-api"

// RedisStore keeps entries in Redis.
//
//	<prefix>:tag:<tag>                  current namespace version (uuid, no expiry)
//	<prefix>:<tag>:<version>:<key>      JSON value with TTL
//
// Entries of retired versions are never read again and expire on their own.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewRedisStore wraps client. Each command gets its own timeout.
func NewRedisStore(client redis.UniversalClient, prefix string, timeout time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout}
}

// NewRedisClient connects to addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) tagKey(tag string) string {
	return s.prefix + ":tag:" + tag
}

func (s *RedisStore) entryKey(tag, version, key string) string {
	return s.prefix + ":" + tag + ":" + version + ":" + key
}

func (s *RedisStore) Version(ctx context.Context, tag string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.tagKey(tag)).Result()
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read tag version: %w", err)
	}

	fresh := uuid.NewString()
	created, err := s.client.SetNX(ctx, s.tagKey(tag), fresh, 0).Result()
	if err != nil {
		return "", fmt.Errorf("create tag version: %w", err)
	}
	if created {
		return fresh, nil
	}
	// lost the race to another writer
	v, err = s.client.Get(ctx, s.tagKey(tag)).Result()
	if err != nil {
		return "", fmt.Errorf("read tag version: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Get(ctx context.Context, tag, version, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.client.Get(ctx, s.entryKey(tag, version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get: %w", err)
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, tag, version, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.entryKey(tag, version, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// Flush rotates the tag version with a single SET, which is atomic for every reader.
func (s *RedisStore) Flush(ctx context.Context, tag string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.tagKey(tag), uuid.NewString(), 0).Err(); err != nil {
		return fmt.Errorf("rotate tag version: %w", err)
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}
