package turn

import (
	"context"
	"log/slog"

	"github.com/edagames/arena/internal/dependencies/random"
	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/storage"
)

// Service implements the turn-token protocol: one current token per
// active game, strictly single-use because issuing the next turn's
// token overwrites the slot.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new turn token service
func New(store storage.Storage, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		random:  rnd,
		logger:  logger.With(slog.String("component", "turn")),
	}
}

// IssueNextTurn generates a fresh unpredictable token and stores it
// for the game, permanently invalidating the prior token the instant
// the write completes. The returned token is embedded in the turn
// payload sent privately to the next mover.
func (s *Service) IssueNextTurn(ctx context.Context, gameID model.GameID) (model.TurnToken, error) {
	token := model.TurnToken(s.random.Token())
	if err := s.storage.SetTurnToken(ctx, gameID, token); err != nil {
		return "", err
	}
	s.logger.Debug("turn token issued", slog.String("game_id", string(gameID)))
	return token, nil
}

// AcceptMove reports whether a submitted token equals the currently
// stored one. Equality is the entire authorization check: no player
// identity is verified here, since only the due mover was ever sent
// the token.
func (s *Service) AcceptMove(ctx context.Context, gameID model.GameID, submitted model.TurnToken) (bool, error) {
	current, err := s.storage.GetTurnToken(ctx, gameID)
	if err != nil {
		return false, err
	}
	return submitted != "" && submitted == current, nil
}
