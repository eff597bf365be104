package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidewizard/models"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps sessions in Redis with a TTL refreshed on every save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore returns a store backed by client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create saves the session in Redis with a TTL, failing if the id is already taken.
func (s *RedisStore) Create(ctx context.Context, sess *models.WizardSession) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, key(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	if !ok {
		return fmt.Errorf("wizard session %s already exists", sess.ID)
	}
	return nil
}

// Get retrieves the session from Redis.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load wizard session: %w", err)
	}
	return decode(data)
}

// Save overwrites an existing session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sess *models.WizardSession) error {
	sess.UpdatedAt = time.Now()
	data, err := encode(sess)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, key(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session from Redis.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}
