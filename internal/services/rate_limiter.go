package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/psycho-70/Eservice-frontend/internal/logging"
	"github.com/psycho-70/Eservice-frontend/internal/observability"
	"github.com/psycho-70/Eservice-frontend/internal/redisclient"
	"go.uber.org/zap"
)

// RateLimiter implements a token bucket rate limiter
type RateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
	logger     *logging.SafeLogger
}

// NewRateLimiter creates a new token bucket rate limiter
func NewRateLimiter(maxTokens int, refillRate time.Duration, logger *logging.SafeLogger) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		logger:     logger,
	}
}

// Allow takes one token if available
func (rl *RateLimiter) Allow(operation string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefill) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		// keep the remainder so partial intervals are not lost
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}

	rl.logger.Debug("rate limiter rejected request",
		zap.String("operation", operation),
		zap.Int("max_tokens", rl.maxTokens))
	return false
}

// GetStatus returns the current and maximum token counts
func (rl *RateLimiter) GetStatus() (int, int) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.tokens, rl.maxTokens
}

func (rl *RateLimiter) idleSince() time.Time {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.lastRefill
}

// Limiter decides whether one more request from key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps one token bucket per key in process memory
type MemoryLimiter struct {
	perMinute int
	buckets   sync.Map // map[string]*RateLimiter
	logger    *logging.SafeLogger
}

// NewMemoryLimiter allows perMinute requests per key, refilled evenly
func NewMemoryLimiter(perMinute int, logger *logging.SafeLogger) *MemoryLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &MemoryLimiter{perMinute: perMinute, logger: logger}
}

// Allow implements Limiter
func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	refill := time.Minute / time.Duration(m.perMinute)
	v, _ := m.buckets.LoadOrStore(key, NewRateLimiter(m.perMinute, refill, m.logger))
	allowed := v.(*RateLimiter).Allow(key)
	if !allowed {
		observability.RateLimitRejections.WithLabelValues("memory").Inc()
	}
	return allowed, nil
}

// CleanupOldEntries drops buckets untouched for longer than olderThan
func (m *MemoryLimiter) CleanupOldEntries(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)
	m.buckets.Range(func(key, value interface{}) bool {
		if value.(*RateLimiter).idleSince().Before(cutoff) {
			m.buckets.Delete(key)
		}
		return true
	})
}

// GetCacheSize returns the number of tracked keys
func (m *MemoryLimiter) GetCacheSize() int {
	count := 0
	m.buckets.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// RedisLimiter counts requests per key in fixed windows stored in Redis, so
// the limit holds across portal replicas.
type RedisLimiter struct {
	client    *redisclient.Client
	perMinute int
	window    time.Duration
	prefix    string
	logger    *logging.SafeLogger
}

// NewRedisLimiter allows perMinute requests per key per one-minute window
func NewRedisLimiter(client *redisclient.Client, perMinute int, logger *logging.SafeLogger) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perMinute: perMinute,
		window:    time.Minute,
		prefix:    "eservice:ratelimit:",
		logger:    logger,
	}
}

// Allow implements Limiter
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowStart := time.Now().Truncate(r.window).Unix()
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, windowStart)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			r.logger.Warn("failed to set rate limit window expiry", zap.String("key", redisKey), zap.Error(err))
		}
	}

	if count > int64(r.perMinute) {
		observability.RateLimitRejections.WithLabelValues("redis").Inc()
		return false, nil
	}
	return true, nil
}

// FallbackLimiter consults primary and switches to fallback for any request
// where primary errors.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	logger   *logging.SafeLogger
}

// NewFallbackLimiter chains primary and fallback
func NewFallbackLimiter(primary, fallback Limiter, logger *logging.SafeLogger) *FallbackLimiter {
	return &FallbackLimiter{primary: primary, fallback: fallback, logger: logger}
}

// Allow implements Limiter
func (f *FallbackLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, err := f.primary.Allow(ctx, key)
	if err == nil {
		return allowed, nil
	}
	f.logger.Warn("rate limiter backend unavailable, using in-memory limiter", zap.Error(err))
	return f.fallback.Allow(ctx, key)
}

// NewLookupLimiter builds the limiter for public lookups: Redis-backed with an
// in-memory fallback when client is set, in-memory otherwise.
func NewLookupLimiter(client *redisclient.Client, perMinute int, logger *logging.SafeLogger) Limiter {
	memory := NewMemoryLimiter(perMinute, logger)
	if client == nil {
		return memory
	}
	return NewFallbackLimiter(NewRedisLimiter(client, perMinute, logger), memory, logger)
}

// CleanupOldEntries prunes the fallback when it keeps in-memory state
func (f *FallbackLimiter) CleanupOldEntries(olderThan time.Duration) {
	if c, ok := f.fallback.(interface{ CleanupOldEntries(time.Duration) }); ok {
		c.CleanupOldEntries(olderThan)
	}
}

// StartCleanup prunes idle in-memory buckets every interval until ctx is
// done. Limiters without in-memory state are left alone.
func StartCleanup(ctx context.Context, l Limiter, interval time.Duration, logger *logging.SafeLogger) {
	c, ok := l.(interface{ CleanupOldEntries(time.Duration) })
	if !ok || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanupOldEntries(interval)
				logger.Debug("rate limiter buckets pruned")
			}
		}
	}()
}
