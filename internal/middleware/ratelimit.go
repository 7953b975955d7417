package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vmartins/escala-service/internal/config"
)

// tokenBucketScript refills and drains one bucket atomically.  State
// is a Redis hash of the token count and the last refill timestamp;
// the script returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local tokens, last = unpack(redis.call('HMGET', KEYS[1], 't', 'ts'))
local now = tonumber(ARGV[1])
local cap = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local step = tonumber(ARGV[4])
tokens = tonumber(tokens)
last = tonumber(last)
if tokens == nil or last == nil then
	tokens = cap
	last = now
end
local steps = math.floor(math.max(0, now - last) / step)
if steps > 0 then
	tokens = math.min(cap, tokens + steps * refill)
	last = last + steps * step
end
local allowed = 0
local retry = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry = math.max(0, step - (now - last))
end
redis.call('HMSET', KEYS[1], 't', tokens, 'ts', last)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, retry}
`)

// NewTokenBucket returns a Redis-backed token-bucket limiter.  With
// limiting disabled or no Redis client it degrades to a pass-through,
// and a Redis failure mid-request lets the request through rather
// than failing it.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := bucketKey(cfg, c)
			res, err := tokenBucketScript.Run(c.Request().Context(), rdb,
				[]string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("rate limit bypassed for %s: %v", key, err)
				}
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				secs := (retryMs + 999) / 1000
				h.Set("Retry-After", strconv.FormatInt(secs, 10))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// bucketKey assembles the bucket key from the parts named by the
// configured strategy.  Unknown strategies fall back to the full
// ip+user+route separation.
func bucketKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := currentUserID(c)
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	strategy := strings.ToLower(cfg.KeyStrategy)
	if strings.Contains(strategy, "ip") || strategy == "" {
		parts = append(parts, "ip", ip)
	}
	if strings.Contains(strategy, "user") || strategy == "" {
		parts = append(parts, "user", uid)
	}
	if strings.Contains(strategy, "route") || strategy == "" {
		parts = append(parts, "route", route)
	}
	if len(parts) == 1 {
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}

func currentUserID(c echo.Context) string {
	if id := userID(c); id != "guest" {
		return id
	}
	return "anon"
}
