package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/waste-pickup/internal/config"
	"github.com/iliyamo/waste-pickup/internal/logger"
)

// fixedWindowScript counts a request in the current window and returns
// {count, ttl_ms}.  The expiry is set only by the first hit of a window.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return { count, ttl }
`)

// NewRateLimiter allows cfg.Requests requests per cfg.Window for each key.
// When Redis is disabled or fails the request is let through.  The limiter
// runs ahead of the route guards, so the "user" strategy reads the bearer
// token itself through tokens.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client, tokens TokenVerifier, log *logger.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	windowMs := cfg.Window.Milliseconds()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c, tokens)

			vals, err := fixedWindowScript.Run(c.Request().Context(), rdb, []string{key}, windowMs).Int64Slice()
			if err != nil || len(vals) != 2 {
				if cfg.Debug {
					log.Warn("ratelimit: redis error", "key", key, "error", err)
				}
				return next(c)
			}
			count, ttlMs := vals[0], vals[1]

			remaining := int64(cfg.Requests) - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				secs := (time.Duration(ttlMs)*time.Millisecond + time.Second - 1) / time.Second
				h.Set("Retry-After", strconv.FormatInt(int64(secs), 10))
				if cfg.Debug {
					log.Info("ratelimit: blocked", "key", key, "count", count)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "rate limit exceeded",
					"code":        "RATE_LIMITED",
					"retry_after": int64(secs),
				})
			}
			return next(c)
		}
	}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context, tokens TokenVerifier) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "user":
		// Anonymous callers fall back to their IP so they never share a bucket.
		if uid, ok := subjectKey(c, tokens); ok {
			parts = append(parts, "user", uid)
		} else {
			parts = append(parts, "ip", ip)
		}
	case "route":
		parts = append(parts, "route", route)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default: // "ip"
		parts = append(parts, "ip", ip)
	}
	return strings.Join(parts, ":")
}
