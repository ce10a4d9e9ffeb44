package config

import "time"

// RateLimitConfig parameterizes a redis token bucket keyed per user
// and route.  Two buckets are mounted: a general one on the whole
// authenticated group, and a tighter one on bid placement so a single
// bot cannot monopolize an auction's final seconds.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration // idle bucket expiry in redis
    Prefix         string
}

// LoadRateLimitConfig reads the general bucket settings from the
// environment.  The defaults allow 60 requests with one token back per
// second.
func LoadRateLimitConfig() RateLimitConfig {
    return sanitize(RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         getenvDefault("RATE_LIMIT_PREFIX", "rl"),
    })
}

// LoadBidRateLimitConfig reads the bid-route bucket.  Ten bids of
// headroom with one token back per second is generous for a human and
// restrictive for a script.
func LoadBidRateLimitConfig() RateLimitConfig {
    return sanitize(RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("BID_RATE_LIMIT_CAPACITY", 10),
        RefillTokens:   envInt("BID_RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("BID_RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        Prefix:         getenvDefault("BID_RATE_LIMIT_PREFIX", "rl:bid"),
    })
}

// sanitize clamps nonsense values so the Lua script always receives a
// working bucket.  The TTL floor keeps a partially refilled bucket from
// expiring between refill intervals.
func sanitize(cfg RateLimitConfig) RateLimitConfig {
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}
