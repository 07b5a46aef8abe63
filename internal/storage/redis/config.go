package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ChallengeTTL bounds the acceptance window of a challenge.
	// No other record carries a TTL: tokens live until overwritten,
	// sessions and move logs until the game's keys age out of the
	// store by operator policy.
	ChallengeTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ChallengeTTL: 5 * time.Minute,
	}
}
