package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Keys for the single-profile persisted state. The values are JSON
// documents written and read as opaque strings.
const (
	KeyApplications       = "applications"
	KeyResumeSections     = "resumeSections"
	KeyProfile            = "profile"
	KeyLastScoresResponse = "lastScoresResponse"
	KeyLastLearningScores = "lastLearningScores"
	KeyLastLearningPlan   = "lastLearningPlan"
)

var ErrNotFound = errors.New("key not found")

// Store is a small persistent KV surface for profile-scoped documents.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a redis client with the shared key prefix.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, prefix: "client:"}
}

func (s *redisStore) key(key string) string {
	return fmt.Sprintf("%s%s", s.prefix, key)
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
