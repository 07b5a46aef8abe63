package model

// ClientID identifies a connected user. It is derived from a verified
// credential and lives only as long as one socket channel.
type ClientID string

// GameID uniquely identifies an active game, assigned by the engine
type GameID string

// ChallengeID uniquely identifies a pending challenge
type ChallengeID string

// TurnToken is the single-use credential proving the right to submit
// the next move for a game. Issuing the next token invalidates it.
type TurnToken string

// EmptyPlayer is the engine's signal that a game has no next mover,
// i.e. the game is over
const EmptyPlayer ClientID = ""

// Challenge is an invitation from one client to another to start a
// game, stored with a bounded acceptance window
type Challenge struct {
	ID         ChallengeID `json:"-"`
	Challenger ClientID    `json:"challenger"`
	Challenged ClientID    `json:"challenged"`
	GameKind   string      `json:"game"`
}

// Players returns the challenge participants, challenger first.
// This ordering is what the engine receives at game creation.
func (c *Challenge) Players() []ClientID {
	return []ClientID{c.Challenger, c.Challenged}
}

// GameSession records which game kind and players belong to a game id.
// Created when a challenge is accepted and never mutated afterwards;
// board state lives in the external engine.
type GameSession struct {
	GameID   GameID     `json:"-"`
	GameKind string     `json:"game"`
	Players  []ClientID `json:"players"`
}

// MoveLog is the last-move snapshot for a game, overwritten on every
// accepted move. Used only to reconstruct final state on abort.
type MoveLog struct {
	GameID GameID         `json:"-"`
	Turn   ClientID       `json:"turn"`
	Data   map[string]any `json:"data"`
}

// MoveResult is the uniform shape returned by every engine call
type MoveResult struct {
	GameID        GameID         `json:"game_id"`
	CurrentPlayer ClientID       `json:"current_player"`
	TurnData      map[string]any `json:"turn_data"`
	PlayData      map[string]any `json:"play_data"`
}

// GameOver reports whether the engine signalled that no player is due
// to move
func (r *MoveResult) GameOver() bool {
	return r.CurrentPlayer == EmptyPlayer
}

// PlayerScore is one (player, score) pair of an outward match result
type PlayerScore struct {
	Player ClientID
	Score  any
}
