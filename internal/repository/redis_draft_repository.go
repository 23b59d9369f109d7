package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/research-guide-api/pkg/errors"
)

// RedisDraftRepository stores drafts as plain Redis strings without expiry.
type RedisDraftRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisDraftRepository constructs a Redis-backed draft store. Keys are
// stored as prefix+key.
func NewRedisDraftRepository(client *redis.Client, prefix string, logger *zap.Logger) *RedisDraftRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDraftRepository{client: client, prefix: prefix, logger: logger}
}

// Load retrieves the raw payload stored under key.
func (r *RedisDraftRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrDraftNotFound
	}

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return raw, nil
}

// Save overwrites the payload stored under key.
func (r *RedisDraftRepository) Save(ctx context.Context, key string, payload []byte) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.logger.Debug("draft saved", zap.String("key", r.prefix+key), zap.Int("bytes", len(payload)))

	return nil
}
