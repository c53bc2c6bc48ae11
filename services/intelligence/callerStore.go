// File: service/ai/callerStore.go
package ai

import (
	"context"
	"encoding/json"
	"time"

	"grotto/models"

	"github.com/go-redis/redis/v8"
)

const callerProfilePrefix = "caller:profile:"

// RedisCallerStore remembers a caller's merged profile across calls from the
// same number. It satisfies call.CallerMemory.
type RedisCallerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCallerStore(client *redis.Client, ttl time.Duration) *RedisCallerStore {
	return &RedisCallerStore{client: client, ttl: ttl}
}

func (s *RedisCallerStore) Get(ctx context.Context, callerNumber string) (models.RenterProfile, error) {
	key := callerProfilePrefix + callerNumber
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.RenterProfile{}, nil
	}
	if err != nil {
		return models.RenterProfile{}, err
	}
	var profile models.RenterProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return models.RenterProfile{}, err
	}
	return profile, nil
}

func (s *RedisCallerStore) Put(ctx context.Context, callerNumber string, profile models.RenterProfile) error {
	key := callerProfilePrefix + callerNumber
	b, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}
