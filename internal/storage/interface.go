package storage

import (
	"context"

	"github.com/edagames/arena/internal/model"
)

// Storage defines the ephemeral key/value contract the match layer
// depends on. All records are short-lived; the store, not this
// process, is the source of truth for turn ownership.
type Storage interface {
	// Challenge operations. Challenges are written with a bounded TTL
	// and never explicitly deleted: expiry makes them unreadable.
	SaveChallenge(ctx context.Context, challenge *model.Challenge) error
	GetChallenge(ctx context.Context, id model.ChallengeID) (*model.Challenge, error)

	// Game session operations
	SaveSession(ctx context.Context, session *model.GameSession) error
	GetSession(ctx context.Context, id model.GameID) (*model.GameSession, error)

	// Turn token operations. SetTurnToken overwrites the current
	// token. The store must provide read-after-write consistency on
	// this key: it is the sole serialization point between a
	// submitted move and a pending penalty timer.
	SetTurnToken(ctx context.Context, id model.GameID, token model.TurnToken) error
	GetTurnToken(ctx context.Context, id model.GameID) (model.TurnToken, error)

	// Move log operations, last-move snapshot per game
	SaveMoveLog(ctx context.Context, log *model.MoveLog) error
	GetMoveLog(ctx context.Context, id model.GameID) (*model.MoveLog, error)
}
