package memory

import (
	"context"
	"sync"
	"time"

	"github.com/edagames/arena/internal/dependencies/clock"
	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Challenge expiry is checked lazily on read against the clock, which
// lets tests advance a mock clock past the acceptance window.
type Storage struct {
	mu sync.RWMutex

	clock        clock.Clock
	challengeTTL time.Duration

	challenges map[model.ChallengeID]challengeEntry
	sessions   map[model.GameID]*model.GameSession
	tokens     map[model.GameID]model.TurnToken
	moveLogs   map[model.GameID]*model.MoveLog
}

type challengeEntry struct {
	challenge *model.Challenge
	expiresAt time.Time
}

// New creates a new in-memory storage instance
func New(clk clock.Clock, challengeTTL time.Duration) *Storage {
	return &Storage{
		clock:        clk,
		challengeTTL: challengeTTL,
		challenges:   make(map[model.ChallengeID]challengeEntry),
		sessions:     make(map[model.GameID]*model.GameSession),
		tokens:       make(map[model.GameID]model.TurnToken),
		moveLogs:     make(map[model.GameID]*model.MoveLog),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Challenge operations

func (s *Storage) SaveChallenge(ctx context.Context, challenge *model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.ID] = challengeEntry{
		challenge: challenge,
		expiresAt: s.clock.Now().Add(s.challengeTTL),
	}
	return nil
}

func (s *Storage) GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.challenges[id]
	if !ok || s.clock.Now().After(entry.expiresAt) {
		return nil, model.ErrChallengeNotFound
	}
	return entry.challenge, nil
}

// Game session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.GameID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.GameID) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

// Turn token operations

func (s *Storage) SetTurnToken(ctx context.Context, id model.GameID, token model.TurnToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[id] = token
	return nil
}

func (s *Storage) GetTurnToken(ctx context.Context, id model.GameID) (model.TurnToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[id]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return token, nil
}

// Move log operations

func (s *Storage) SaveMoveLog(ctx context.Context, log *model.MoveLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLogs[log.GameID] = log
	return nil
}

func (s *Storage) GetMoveLog(ctx context.Context, id model.GameID) (*model.MoveLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.moveLogs[id]
	if !ok {
		return nil, model.ErrMoveLogNotFound
	}
	return log, nil
}
