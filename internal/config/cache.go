package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the catalog response cache.  Only the
// match listing and match detail routes are cached; ticket types carry
// live seat counts and never are.  Admin writes to the catalog purge every
// key under Prefix when InvalidateOnWrite is set.
type CacheConfig struct {
	Enabled           bool
	Methods           map[string]bool
	TTL               time.Duration
	KeyStrategy       string
	Prefix            string
	MaxBodyBytes      int
	InvalidateOnWrite bool
}

// LoadCacheConfig reads CACHE_* variables.  Methods are upper-cased.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:           envBool("CACHE_ENABLED", true),
		Methods:           parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:               envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:       envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:            envStr("CACHE_PREFIX", "cache:catalog"),
		MaxBodyBytes:      envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		InvalidateOnWrite: envBool("CACHE_INVALIDATE_ON_WRITE", true),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
