package negotiation

import "errors"

var (
	// ErrNotFound indicates the negotiation doesn't exist.
	ErrNotFound = errors.New("negotiation not found")
	// ErrConflict indicates a card is already under an open negotiation.
	ErrConflict = errors.New("card already under negotiation")
	// ErrInvalidActor indicates the responder is not the proposal's target.
	ErrInvalidActor = errors.New("actor may not respond to this negotiation")
	// ErrAlreadyResolved indicates a response to a terminal negotiation.
	ErrAlreadyResolved = errors.New("negotiation already resolved")
	// ErrInvalidInput indicates invalid negotiation input.
	ErrInvalidInput = errors.New("invalid negotiation input")
	// ErrUnknownCard indicates a proposal references a card that doesn't exist.
	ErrUnknownCard = errors.New("proposal references unknown card")
)
