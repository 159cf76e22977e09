package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Counter increments a windowed counter and returns its new value.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter keeps rate-limit counters in Redis so every replica shares them.
type RedisCounter struct {
	rdb *redis.Client
}

// NewRedisCounter creates a new RedisCounter.
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Incr bumps key and arms its expiry on first use.
func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter is a fixed-window per-IP limiter.
type RateLimiter struct {
	counter Counter
	scope   string
	limit   int
	window  time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window.
func NewRateLimiter(counter Counter, scope string, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		scope:   scope,
		limit:   limit,
		window:  window,
		log:     log.With().Str("component", "rate_limiter").Str("scope", scope).Logger(),
		now:     time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
// Counter failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		now := rl.now()
		key := config.CacheKey.RateLimitKey(rl.scope, c.ClientIP(), rl.window, now)
		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn().Err(err).Msg("Rate limit counter unavailable")
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			windowSecs := int64(rl.window / time.Second)
			retry := windowSecs - now.Unix()%windowSecs
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
