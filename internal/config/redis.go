package config

import (
	"context"
	"strings"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// Redis is nil when no REDIS_URI is configured or the server is unreachable
	Redis *redisclient.Client
)

// InitRedis connects the optional Redis instance backing the public lookup
// rate limiter.
func InitRedis() {
	if AppConfig.RedisURI == "" {
		logging.Logger.Info("redis not configured, using in-memory rate limiter")
		return
	}

	opts, err := redisOptions(AppConfig.RedisURI, AppConfig.RedisPassword, AppConfig.RedisDB)
	if err != nil {
		logging.Logger.Error("invalid REDIS_URI", zap.Error(err))
		return
	}

	client := redisclient.NewClient(redis.NewClient(opts))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", maskRedisURI(AppConfig.RedisURI)),
			zap.Error(err))
		_ = client.Close()
		return
	}

	Redis = client
	logging.Logger.Info("connected to Redis",
		zap.String("uri", maskRedisURI(AppConfig.RedisURI)))
}

// CloseRedis releases the Redis connection pool if one was opened
func CloseRedis() {
	if Redis == nil {
		return
	}
	if err := Redis.Close(); err != nil {
		logging.Logger.Error("failed to close Redis", zap.Error(err))
	}
	Redis = nil
}

// redisOptions accepts either a redis:// URL or a bare host:port address
func redisOptions(uri, password string, db int) (*redis.Options, error) {
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		opts, err := redis.ParseURL(uri)
		if err != nil {
			return nil, err
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}

	return &redis.Options{
		Addr:         uri,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}, nil
}

// maskRedisURI hides credentials embedded in a redis:// URL
func maskRedisURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "redis://"
	if strings.HasPrefix(uri, "rediss://") {
		scheme = "rediss://"
	}
	return scheme + "****:****@" + uri[at+1:]
}
