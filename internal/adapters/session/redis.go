package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one key per session plus a sorted set of expiry times
// used to count active sessions.
type RedisStore struct {
	client *redis.Client
	settings
}

// RedisConfig holds connection parameters.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis.
func NewRedis(cfg RedisConfig, opts ...Option) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisWithClient(rdb, opts...)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(rdb *redis.Client, opts ...Option) *RedisStore {
	s := &RedisStore{client: rdb, settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *RedisStore) key(token string) string { return s.prefix + "session:" + token }
func (s *RedisStore) index() string           { return s.prefix + "sessions" }

func (s *RedisStore) expiry() float64 {
	return float64(s.now().Add(s.ttl).Unix())
}

// Create opens a session for email.
func (s *RedisStore) Create(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(token), email, s.ttl)
		p.ZAdd(ctx, s.index(), redis.Z{Score: s.expiry(), Member: token})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Lookup resolves token and slides its expiry.
func (s *RedisStore) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	email, err := s.client.GetEx(ctx, s.key(token), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	if err := s.client.ZAdd(ctx, s.index(), redis.Z{Score: s.expiry(), Member: token}).Err(); err != nil {
		return "", fmt.Errorf("refresh session: %w", err)
	}
	return email, nil
}

// Delete ends a session. Unknown tokens are not an error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(token))
		p.ZRem(ctx, s.index(), token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Active drops expired index entries and counts the rest.
func (s *RedisStore) Active(ctx context.Context) (int, error) {
	now := strconv.FormatInt(s.now().Unix(), 10)
	var card *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, s.index(), "-inf", "("+now)
		card = p.ZCard(ctx, s.index())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return int(card.Val()), nil
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
