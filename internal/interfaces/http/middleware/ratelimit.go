package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/utils"
)

// WindowCounter increments the hit count for key within the current window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

// NewRedisCounter returns a fixed-window counter shared by every instance
// that talks to the same Redis.
func NewRedisCounter(client *redis.Client) WindowCounter {
	return &redisCounter{client: client}
}

func (r *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		r.client.Expire(ctx, key, window+time.Second)
	}
	return count, nil
}

// RateLimiter caps writes per client IP using a fixed-window counter.
// Reads pass through so live streams and list polling are never throttled.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	logger  logger.Interface
	now     func() time.Time
}

func NewRateLimiter(counter WindowCounter, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		logger:  log,
		now:     time.Now,
	}
}

// Limit returns a Gin middleware that enforces the limit on mutating requests.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		bucket := rl.now().Unix() / int64(rl.window.Seconds())
		key := fmt.Sprintf("servicedesk:ratelimit:%s:%d", c.ClientIP(), bucket)

		count, err := rl.counter.Hit(c.Request.Context(), key, rl.window)
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limit counter unavailable", "error", err)
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
