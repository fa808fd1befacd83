package middleware

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures rate limiting behavior
type RateLimitConfig struct {
	// PerMinute is the sustained number of interactions allowed per key
	PerMinute int

	// KeyFunc extracts the rate limit key from context
	KeyFunc func(*core.InteractionContext) string

	// Message shown when rate limited
	Message string

	// Store tracks usage per key (if nil, uses in-memory token buckets)
	Store RateLimitStore
}

// RateLimitStore decides whether a key may proceed
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// defaultKeyFunc uses user ID as the rate limit key
func defaultKeyFunc(ctx *core.InteractionContext) string {
	return ctx.UserID
}

// RateLimitMiddleware applies rate limiting
func RateLimitMiddleware(config *RateLimitConfig) core.Middleware {
	if config.PerMinute < 1 {
		config.PerMinute = 1
	}
	if config.KeyFunc == nil {
		config.KeyFunc = defaultKeyFunc
	}
	if config.Message == "" {
		config.Message = "You're doing that too fast! Please wait a moment before trying again."
	}
	if config.Store == nil {
		config.Store = NewTokenBucketStore(config.PerMinute, config.PerMinute)
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			key := config.KeyFunc(ctx)
			if key == "" {
				// No key, skip rate limiting
				return next.Handle(ctx)
			}

			allowed, err := config.Store.Allow(ctx.Context, key)
			if err != nil {
				// Log error but don't block request
				log.Printf("[Discord] Rate limit store error for %s: %v", key, err)
				return next.Handle(ctx)
			}

			if !allowed {
				return &core.HandlerResult{
					Response: core.NewEphemeralResponse("⏱️ " + config.Message),
				}, nil
			}

			return next.Handle(ctx)
		})
	}
}

// UserRateLimitMiddleware applies per-user rate limiting
func UserRateLimitMiddleware(perMinute int) core.Middleware {
	return RateLimitMiddleware(&RateLimitConfig{
		PerMinute: perMinute,
		KeyFunc:   defaultKeyFunc,
	})
}

// TokenBucketStore keeps one token bucket per key in memory
type TokenBucketStore struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	buckets   map[string]*tokenBucket
	now       func() time.Time
}

type tokenBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucketStore allows perMinute sustained interactions per key with
// bursts of up to burst.
func NewTokenBucketStore(perMinute, burst int) *TokenBucketStore {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketStore{
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		idleAfter: 10 * time.Minute,
		buckets:   make(map[string]*tokenBucket),
		now:       time.Now,
	}
}

// Allow implements RateLimitStore
func (s *TokenBucketStore) Allow(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	b, exists := s.buckets[key]
	if !exists {
		b = &tokenBucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1), nil
}

// sweep drops buckets idle long enough to have refilled completely.
func (s *TokenBucketStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleAfter {
		return
	}
	s.lastSweep = now
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) >= s.idleAfter {
			delete(s.buckets, key)
		}
	}
}

// Len reports how many keys are tracked
func (s *TokenBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// RedisRateLimitStore counts interactions per key in fixed windows in Redis,
// so every bot process shares the same limits.
type RedisRateLimitStore struct {
	client redis.UniversalClient
	max    int
	window time.Duration
}

// NewRedisRateLimitStore allows max interactions per key in each window
func NewRedisRateLimitStore(client redis.UniversalClient, max int, window time.Duration) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client: client,
		max:    max,
		window: window,
	}
}

// Allow implements RateLimitStore
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, s.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count <= int64(s.max), nil
}
