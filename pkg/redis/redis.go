package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ikkim/swapdonaterent-backend/config"
	"github.com/ikkim/swapdonaterent-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// cartCountTTL bounds staleness if an invalidation is ever lost
const cartCountTTL = 10 * time.Minute

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil when Redis is disabled)
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func cartCountKey(userID uint) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

// CacheCartCount stores a user's cart badge count.
// No-op when Redis is not configured.
func CacheCartCount(ctx context.Context, userID uint, count int64) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, cartCountKey(userID), count, cartCountTTL).Err(); err != nil {
		logger.Warn("Failed to cache cart count", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// GetCachedCartCount returns the cached cart badge count for a user.
// The second return value reports whether a cached value was found.
func GetCachedCartCount(ctx context.Context, userID uint) (int64, bool) {
	if client == nil {
		return 0, false
	}

	val, err := client.Get(ctx, cartCountKey(userID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		logger.Warn("Failed to read cached cart count", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// InvalidateCartCount drops the cached badge count after a cart mutation
func InvalidateCartCount(ctx context.Context, userID uint) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, cartCountKey(userID)).Err(); err != nil {
		logger.Warn("Failed to invalidate cart count cache", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
