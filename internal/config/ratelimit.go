package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig configures one token bucket.  Each protected surface
// (customer bookings, admin login) gets its own scope so the buckets and
// their limits stay independent.
type RateLimitConfig struct {
	Scope          string
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string // ip | admin | route | ip_route
	Prefix         string
	Debug          bool
}

// rateLimitDefaults holds per-scope defaults.  Unknown scopes fall back to
// the general limits.
var rateLimitDefaults = map[string]RateLimitConfig{
	"bookings": {Capacity: 10, RefillTokens: 1, RefillInterval: 6 * time.Second, KeyStrategy: "ip_route"},
	"login":    {Capacity: 5, RefillTokens: 1, RefillInterval: 12 * time.Second, KeyStrategy: "ip"},
}

// LoadRateLimitConfig builds the bucket for scope.  RATE_LIMIT_* variables
// apply to every scope; RATE_LIMIT_<SCOPE>_* override them.
func LoadRateLimitConfig(scope string) RateLimitConfig {
	def, ok := rateLimitDefaults[scope]
	if !ok {
		def = RateLimitConfig{Capacity: 60, RefillTokens: 1, RefillInterval: time.Second, KeyStrategy: "ip_route"}
	}
	up := strings.ToUpper(scope)
	scoped := func(name string) string { return "RATE_LIMIT_" + up + "_" + name }

	cfg := RateLimitConfig{
		Scope:          scope,
		Enabled:        envBool(scoped("ENABLED"), envBool("RATE_LIMIT_ENABLED", true)),
		Capacity:       envInt(scoped("CAPACITY"), def.Capacity),
		RefillTokens:   envInt(scoped("REFILL_TOKENS"), def.RefillTokens),
		RefillInterval: envDur(scoped("REFILL_INTERVAL"), def.RefillInterval),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr(scoped("KEY_STRATEGY"), def.KeyStrategy),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl") + ":" + scope,
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// The bucket script counts whole milliseconds.
	if cfg.RefillInterval < time.Millisecond {
		cfg.RefillInterval = time.Millisecond
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
