package deal

import "errors"

var (
	// ErrInvalidMode indicates an unrecognized deal mode.
	ErrInvalidMode = errors.New("invalid deal mode")
	// ErrInsufficientCards indicates the unassigned pool cannot satisfy
	// the minimum-cards-per-partner rule. Nothing is dealt.
	ErrInsufficientCards = errors.New("insufficient unassigned cards")
)
