package turn

import (
	"context"
	"log/slog"
	"time"

	"github.com/edagames/arena/internal/model"
	"github.com/edagames/arena/internal/storage"
)

// fireTimeout bounds the store read and downstream engine call made
// when a deadline fires
const fireTimeout = 30 * time.Second

// Scheduler races a fixed move deadline against the next valid move.
// There is no cancel path: a timer whose token has been superseded by
// a real move finds a different stored value at fire time and does
// nothing. Any number of stale timers may be outstanding per game;
// each is a single store read when it fires.
type Scheduler struct {
	storage storage.Storage
	delay   time.Duration
	logger  *slog.Logger
}

// NewScheduler creates a penalty scheduler with the given move deadline
func NewScheduler(store storage.Storage, delay time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		storage: store,
		delay:   delay,
		logger:  logger.With(slog.String("component", "penalty")),
	}
}

// Delay returns the configured move deadline
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Schedule arms a deadline for (gameID, token). When it fires, the
// currently stored token is re-read on a fresh background context --
// the timer must outlive the connection that scheduled it -- and fire
// runs only if the token is still the one that was current at
// scheduling time. That freshness check is the sole guard against a
// turn being processed twice.
func (s *Scheduler) Schedule(gameID model.GameID, token model.TurnToken, fire func(ctx context.Context)) {
	time.AfterFunc(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
		defer cancel()

		current, err := s.storage.GetTurnToken(ctx, gameID)
		if err != nil {
			s.logger.Warn("deadline token check failed",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			return
		}
		if current != token {
			// A valid move arrived first; this timer is superseded
			return
		}

		s.logger.Info("move deadline expired",
			slog.String("game_id", string(gameID)),
		)
		fire(ctx)
	})
}
