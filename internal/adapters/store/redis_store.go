package store

import (
	"context"
	"fmt"

	"github.com/mishkan-app/backend/internal/domain/repositories"
	redisclient "github.com/mishkan-app/backend/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements the DocumentStore interface on Redis. Each document
// is one string value under "mishkan:<device>:<name>".
type RedisStore struct {
	client *redisclient.Client
}

// Ensure RedisStore implements DocumentStore
var _ repositories.DocumentStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis document store
func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client}
}

func documentKey(deviceID, name string) string {
	return fmt.Sprintf("mishkan:%s:%s", deviceID, name)
}

// Get returns the raw document, or ErrDocumentNotFound
func (s *RedisStore) Get(ctx context.Context, deviceID, name string) ([]byte, error) {
	data, err := s.client.Client().Get(ctx, documentKey(deviceID, name)).Bytes()
	if err == redis.Nil {
		return nil, repositories.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", deviceID, name, err)
	}
	return data, nil
}

// Set overwrites the whole document
func (s *RedisStore) Set(ctx context.Context, deviceID, name string, data []byte) error {
	if err := s.client.Client().Set(ctx, documentKey(deviceID, name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", deviceID, name, err)
	}
	return nil
}

// Delete removes the document; deleting an absent document is a no-op
func (s *RedisStore) Delete(ctx context.Context, deviceID, name string) error {
	if err := s.client.Client().Del(ctx, documentKey(deviceID, name)).Err(); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", deviceID, name, err)
	}
	return nil
}
