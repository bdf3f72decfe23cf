package card

import "errors"

var (
	// ErrCardNotFound indicates the card doesn't exist.
	ErrCardNotFound = errors.New("card not found")
	// ErrInvalidInput indicates invalid card input.
	ErrInvalidInput = errors.New("invalid card input")
	// ErrCardInNegotiation indicates the card is referenced by an open negotiation.
	ErrCardInNegotiation = errors.New("card is under negotiation")
)
