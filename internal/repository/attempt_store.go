package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrAttemptNotFound is returned when an attempt expired or never existed.
var ErrAttemptNotFound = errors.New("practice attempt not found")

// AttemptStore keeps in-flight practice attempts in redis as JSON with a
// sliding TTL.
type AttemptStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{redis: client, ttl: ttl}
}

func attemptKey(id uuid.UUID) string {
	return fmt.Sprintf("practice:attempt:%s", id)
}

func (s *AttemptStore) Save(ctx context.Context, id uuid.UUID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, attemptKey(id), data, s.ttl).Err()
}

func (s *AttemptStore) Load(ctx context.Context, id uuid.UUID, v any) error {
	data, err := s.redis.Get(ctx, attemptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrAttemptNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *AttemptStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.redis.Del(ctx, attemptKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
