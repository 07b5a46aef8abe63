package model

import "encoding/json"

// EventType identifies an outbound socket event
type EventType string

const (
	EventChallenge EventType = "challenge"
	EventError     EventType = "error"
	EventYourTurn  EventType = "your_turn"
	EventListUsers EventType = "list_users"
	EventGameOver  EventType = "game_over"
	EventFeedback  EventType = "feedback"
)

// Envelope is the wire shape of every outbound socket event
type Envelope struct {
	Event EventType `json:"event"`
	Data  any       `json:"data"`
}

// Action classifies an inbound message into one of the closed set of
// transitions the dispatcher understands
type Action int

const (
	ActionListUsers Action = iota
	ActionChallenge
	ActionAcceptChallenge
	ActionAbortGame
	// ActionMovement is the fallback for every unrecognized tag: a
	// bare move submission does not need to name itself
	ActionMovement
)

// Inbound action tags
const (
	TagListUsers       = "list_users"
	TagChallenge       = "challenge"
	TagAcceptChallenge = "accept_challenge"
	TagAbortGame       = "abort_game"
)

// ActionFromTag maps an action tag to its Action. Unrecognized tags,
// including the empty tag, are movements.
func ActionFromTag(tag string) Action {
	switch tag {
	case TagListUsers:
		return ActionListUsers
	case TagChallenge:
		return ActionChallenge
	case TagAcceptChallenge:
		return ActionAcceptChallenge
	case TagAbortGame:
		return ActionAbortGame
	default:
		return ActionMovement
	}
}

// Message is a parsed inbound socket message
type Message struct {
	Action string         `json:"action"`
	Data   map[string]any `json:"data"`
}

// ParseMessage decodes an inbound frame. Malformed payloads normalize
// to an empty message so that downstream field lookups fail gracefully
// instead of crashing the channel loop.
func ParseMessage(raw []byte) Message {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}
	}
	return msg
}

// Field names read from inbound message data
const (
	FieldOpponent    = "opponent"
	FieldChallengeID = "challenge_id"
	FieldTurnToken   = "turn_token"
	FieldBoardID     = "board_id"
)
