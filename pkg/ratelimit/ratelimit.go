package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shareit/pkg/config"
)

// NewGlobal builds the process-wide token bucket. A non-positive RPS disables it.
func NewGlobal(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.RPS <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Limit(cfg.RPS), burst)
}

// Quota is a fixed-window request counter per caller kept in Redis, so that
// every gateway replica shares it.
type Quota struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewQuota(client *redis.Client, limit int, window time.Duration) *Quota {
	return &Quota{client: client, limit: limit, window: window}
}

// quotaScript counts a hit and sets the window TTL in one step. A key left
// without a TTL gets one again on the next hit.
var quotaScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 or redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

func (q *Quota) Allow(ctx context.Context, key string) (bool, error) {
	if q.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	redisKey := "rate_limit:" + key
	count, err := quotaScript.Run(ctx, q.client, []string{redisKey}, q.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to count request: %w", err)
	}
	return count <= int64(q.limit), nil
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

// Middleware rejects requests over the global rate, then over the caller's
// quota when quota is set. Callers are told apart by keyHeader. Redis errors
// let the request through.
func Middleware(global *rate.Limiter, quota *Quota, keyHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !global.Allow() {
			tooMany(c)
			return
		}
		if quota != nil {
			if key := c.GetHeader(keyHeader); key != "" {
				ok, err := quota.Allow(c.Request.Context(), key)
				if err != nil {
					zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit check failed")
				} else if !ok {
					tooMany(c)
					return
				}
			}
		}
		c.Next()
	}
}

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
}
