package config

import "time"

// RateLimitConfig describes one token-bucket profile. The service carries
// two profiles: a strict one for credential endpoints (register/login) and
// a loose one for general authenticated routes.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
	Debug          bool
}

// LoadStrictRateLimit returns the profile applied to authentication routes:
// a small bucket with a slow refill, so password guessing from a single IP
// stalls quickly.
func LoadStrictRateLimit() RateLimitConfig {
	return loadProfile("RATE_LIMIT_AUTH", RateLimitConfig{
		Enabled:        true,
		Capacity:       5,
		RefillTokens:   1,
		RefillInterval: 12 * time.Second,
		Prefix:         "rl:auth",
	})
}

// LoadLooseRateLimit returns the profile applied to general API routes.
func LoadLooseRateLimit() RateLimitConfig {
	return loadProfile("RATE_LIMIT_API", RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		Prefix:         "rl:api",
	})
}

// loadProfile overlays environment variables on top of the given defaults.
// Variables are namespaced by prefix, e.g. RATE_LIMIT_AUTH_CAPACITY.
func loadProfile(env string, def RateLimitConfig) RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool(env+"_ENABLED", def.Enabled),
		Capacity:       envInt(env+"_CAPACITY", def.Capacity),
		RefillTokens:   envInt(env+"_REFILL_TOKENS", def.RefillTokens),
		RefillInterval: envDur(env+"_REFILL_INTERVAL", def.RefillInterval),
		TTL:            envDur(env+"_TTL", 10*time.Minute),
		Prefix:         envStr(env+"_PREFIX", def.Prefix),
		Debug:          envBool(env+"_DEBUG", false),
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
	// Keep bucket state around long enough for at least a few refills.
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
