package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/edagames/arena/internal/dependencies/clock"
	"github.com/edagames/arena/internal/dependencies/random"
	"github.com/edagames/arena/internal/engine"
	"github.com/edagames/arena/internal/report"
	"github.com/edagames/arena/internal/services/auth"
	"github.com/edagames/arena/internal/services/match"
	"github.com/edagames/arena/internal/services/turn"
	"github.com/edagames/arena/internal/storage"
	"github.com/edagames/arena/internal/storage/memory"
	redisstorage "github.com/edagames/arena/internal/storage/redis"
	"github.com/edagames/arena/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService  *auth.Service
	Engines      *engine.Registry
	TurnService  *turn.Service
	Scheduler    *turn.Scheduler
	Registry     *ws.Registry
	Reporter     report.Reporter
	MatchService *match.Service
	Socket       *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// TokenKey is the shared credential signing key
	TokenKey string
	// EngineURLs maps game kinds to rules-engine endpoints
	EngineURLs map[string]string
	// ResultsURL receives outward match-result notifications
	ResultsURL string
	// DefaultGameKind is used for challenges that do not name a game
	DefaultGameKind string
	// ChallengeTTL bounds the acceptance window of a challenge
	// (memory storage only; Redis carries it in RedisConfig)
	ChallengeTTL time.Duration
	// TurnTimeout is the move deadline
	TurnTimeout time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	challengeTTL := cfg.ChallengeTTL
	if challengeTTL == 0 {
		challengeTTL = redisstorage.DefaultConfig().ChallengeTTL
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(clk, challengeTTL)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	turnTimeout := cfg.TurnTimeout
	if turnTimeout == 0 {
		turnTimeout = 5 * time.Second
	}

	engines := engine.NewRegistry(cfg.EngineURLs)
	reporter := report.NewWebReporter(cfg.ResultsURL, logger)

	return newWithDependencies(store, clk, rnd, engines, reporter, cfg, turnTimeout, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	engines *engine.Registry,
	reporter report.Reporter,
	cfg Config,
	turnTimeout time.Duration,
	logger *slog.Logger,
) *App {
	authService := auth.New(auth.Config{TokenKey: cfg.TokenKey})
	turnService := turn.New(store, rnd, logger)
	scheduler := turn.NewScheduler(store, turnTimeout, logger)
	registry := ws.NewRegistry(logger)
	matchService := match.NewService(
		store, engines, turnService, scheduler,
		registry, reporter, rnd, cfg.DefaultGameKind, logger,
	)
	socket := ws.NewHandler(registry, authService, matchService, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		AuthService:  authService,
		Engines:      engines,
		TurnService:  turnService,
		Scheduler:    scheduler,
		Registry:     registry,
		Reporter:     reporter,
		MatchService: matchService,
		Socket:       socket,
	}
}
