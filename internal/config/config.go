package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from the environment
type Config struct {
	// HTTP listener
	Host string `env:"ARENA_HOST" envDefault:""`
	Port int    `env:"ARENA_PORT" envDefault:"8080"`

	// Storage backend: "redis" or "memory"
	StorageType string `env:"STORAGE_TYPE" envDefault:"redis"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// TokenKey is the shared HMAC key connection credentials are
	// signed with
	TokenKey string `env:"TOKEN_KEY,required"`

	// ResultsURL receives the outward match-result notification
	ResultsURL string `env:"RESULTS_URL" envDefault:"http://localhost:8000/api/games/"`

	// EngineURLs maps game kinds to rules-engine endpoints
	EngineURLs map[string]string `env:"ENGINE_URLS" envKeyValSeparator:"=" envDefault:"quoridor=http://localhost:50051"`

	// DefaultGameKind is used for challenges that do not name a game
	DefaultGameKind string `env:"DEFAULT_GAME" envDefault:"quoridor"`

	// ChallengeTTL bounds the acceptance window of a challenge
	ChallengeTTL time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`

	// TurnTimeout is the move deadline before the engine penalizes
	// the stalling player
	TurnTimeout time.Duration `env:"TURN_TIMEOUT" envDefault:"5s"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
