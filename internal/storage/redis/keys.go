package redis

import (
	"fmt"

	"github.com/edagames/arena/internal/model"
)

// Key prefixes, shared with every other consumer of the store. The
// single-letter scheme is part of the external contract and must not
// change.
const (
	prefixChallenge = "c_"
	prefixTurnToken = "t_"
	prefixSession   = "g_"
	prefixMoveLog   = "l_"
)

// challengeKey returns the key for a pending challenge
func challengeKey(id model.ChallengeID) string {
	return fmt.Sprintf("%s%s", prefixChallenge, id)
}

// turnTokenKey returns the key holding the current turn token of a game
func turnTokenKey(id model.GameID) string {
	return fmt.Sprintf("%s%s", prefixTurnToken, id)
}

// sessionKey returns the key for a game session record
func sessionKey(id model.GameID) string {
	return fmt.Sprintf("%s%s", prefixSession, id)
}

// moveLogKey returns the key for the last-move snapshot of a game
func moveLogKey(id model.GameID) string {
	return fmt.Sprintf("%s%s", prefixMoveLog, id)
}
