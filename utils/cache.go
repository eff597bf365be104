// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"guidewizard/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds wizard sessions when SESSION_STORE is "redis".
var SessionCacheClient *redis.Client

// InitSessionCache initializes the Redis client for wizard sessions (using REDIS_SESSION_DB).
func InitSessionCache() error {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (Sessions): %w", err)
	}
	return nil
}

// GetSessionCacheClient returns the Redis client for wizard sessions.
func GetSessionCacheClient() (*redis.Client, error) {
	if SessionCacheClient == nil {
		if err := InitSessionCache(); err != nil {
			return nil, err
		}
	}
	return SessionCacheClient, nil
}

// RedisPingCheck reports whether the session Redis answers within two seconds.
func RedisPingCheck(client *redis.Client) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}
