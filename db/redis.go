// file: db/redis.go

package db

import (
	"context"
	"fmt"
	"user-management-api/config"
	"user-management-api/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes the redis client backing the user cache.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	redisCfg := cfg.Redis
	redisAddr := fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping Redis")
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Log.WithField("address", redisAddr).Info("Redis connection established successfully")
	return rdb, nil
}
