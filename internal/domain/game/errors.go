package game

import "errors"

var (
	// ErrNoActiveGame indicates the household has no active session.
	ErrNoActiveGame = errors.New("no active game")
	// ErrGameEnded indicates a mutation against an ended session.
	ErrGameEnded = errors.New("game has ended")
	// ErrInvalidInput indicates invalid game input.
	ErrInvalidInput = errors.New("invalid game input")
	// ErrPersistence wraps store failures that occurred after the in-memory
	// state was already committed. The state remains consistent; the write
	// was not retried.
	ErrPersistence = errors.New("persistence failure")
)
