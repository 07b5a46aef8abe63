package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	data, err := json.Marshal(challenge)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, challengeKey(challenge.ID), data, s.cfg.ChallengeTTL).Err()
}

func (s *Storage) GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error) {
	data, err := s.client.Get(ctx, challengeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrChallengeNotFound
		}
		return nil, err
	}

	var challenge model.Challenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, err
	}
	challenge.ID = id
	return &challenge, nil
}

// Game session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.GameID), data, 0).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.GameID) (*model.GameSession, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.GameSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	session.GameID = id
	return &session, nil
}

// Turn token operations

func (s *Storage) SetTurnToken(ctx context.Context, id model.GameID, token model.TurnToken) error {
	// Plain SET, no expiry: overwriting is the invalidation mechanism
	return s.client.Set(ctx, turnTokenKey(id), string(token), 0).Err()
}

func (s *Storage) GetTurnToken(ctx context.Context, id model.GameID) (model.TurnToken, error) {
	token, err := s.client.Get(ctx, turnTokenKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrTokenNotFound
		}
		return "", err
	}
	return model.TurnToken(token), nil
}

// Move log operations

func (s *Storage) SaveMoveLog(ctx context.Context, log *model.MoveLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, moveLogKey(log.GameID), data, 0).Err()
}

func (s *Storage) GetMoveLog(ctx context.Context, id model.GameID) (*model.MoveLog, error) {
	data, err := s.client.Get(ctx, moveLogKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMoveLogNotFound
		}
		return nil, err
	}

	var log model.MoveLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, err
	}
	log.GameID = id
	return &log, nil
}
