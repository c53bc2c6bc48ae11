// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"grotto/config"

	"github.com/go-redis/redis/v8"
)

// CallerCacheClient is the Redis client holding caller profile memory
// carried across calls from the same number.
var CallerCacheClient *redis.Client

// InitCallerCache initializes the Redis client for caller profile memory.
func InitCallerCache() {
	CallerCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCallerDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CallerCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Caller Cache): %v", err)
	}
}

// GetCallerCacheClient returns the Redis client for caller profile memory.
func GetCallerCacheClient() *redis.Client {
	if CallerCacheClient == nil {
		InitCallerCache()
	}
	return CallerCacheClient
}
