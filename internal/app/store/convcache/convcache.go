// internal/app/store/convcache/convcache.go
package convcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vhht/vhhtbot/internal/domain/models"
)

const keyPrefix = "vhhtbot:conv:"

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store keeps per-conversation state in Redis with a sliding TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg Config, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Load returns the stored state for id, or an empty Conversation when the
// key is missing or expired.
func (s *Store) Load(ctx context.Context, id string) (models.Conversation, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Conversation{ID: id}, nil
	}
	if err != nil {
		return models.Conversation{}, fmt.Errorf("redis get: %w", err)
	}
	var conv models.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return models.Conversation{}, fmt.Errorf("decode conversation: %w", err)
	}
	conv.ID = id
	return conv, nil
}

// Save writes the conversation and resets its TTL.
func (s *Store) Save(ctx context.Context, conv models.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+conv.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}
