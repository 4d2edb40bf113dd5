package config

import "time"

// RateLimitConfig configures the fixed-window admission throttle applied to
// the API.  Each key (by default the client IP) may issue Requests requests
// per Window; the counter lives in Redis and expires with the window.
type RateLimitConfig struct {
	Enabled     bool
	Requests    int
	Window      time.Duration
	KeyStrategy string
	Prefix      string
	Debug       bool
}

func LoadRateLimitConfig() RateLimitConfig {
	def := RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Requests:    envInt("RATE_LIMIT_REQUESTS", 100),
		Window:      envDur("RATE_LIMIT_WINDOW", 15*time.Minute),
		KeyStrategy: envStr("RATE_LIMIT_KEY_STRATEGY", "ip"),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:       envBool("RATE_LIMIT_DEBUG", false),
	}
	if def.Requests < 1 {
		def.Requests = 1
	}
	if def.Window < time.Second {
		def.Window = time.Second
	}
	return def
}
