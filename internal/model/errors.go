package model

import "errors"

// Common errors used across the application
var (
	// Challenge errors
	ErrChallengeNotFound = errors.New("challenge not found")

	// Game session errors
	ErrSessionNotFound = errors.New("game session not found")

	// Turn token errors
	ErrTokenNotFound = errors.New("turn token not found")

	// Move log errors
	ErrMoveLogNotFound = errors.New("move log not found")

	// Engine errors
	ErrUnknownGameKind = errors.New("unknown game kind")
)
