package config

import "time"

// CacheConfig tunes the redis response cache on the public catalogue
// reads.  Only GET responses are cached.  Auction detail and bid-list
// routes carry a path parameter and use DetailTTL, kept short because
// the current price moves with every accepted bid; the catalogue
// listing tolerates the longer TTL.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration // catalogue listing entries
    DetailTTL    time.Duration // per-auction reads, price changes per bid
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads the cache settings from the environment,
// falling back to defaults sized for the catalogue.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        DetailTTL:    envDur("CACHE_DETAIL_TTL", 2*time.Second),
        Prefix:       getenvDefault("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    if cfg.DetailTTL <= 0 || cfg.DetailTTL > cfg.TTL {
        cfg.DetailTTL = 2 * time.Second
    }
    return cfg
}
