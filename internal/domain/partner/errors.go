package partner

import "errors"

var (
	// ErrPartnerNotFound indicates the partner doesn't exist.
	ErrPartnerNotFound = errors.New("partner not found")
	// ErrInvalidPartner indicates an ID outside the fixed pair.
	ErrInvalidPartner = errors.New("invalid partner id")
	// ErrInvalidInput indicates invalid partner input.
	ErrInvalidInput = errors.New("invalid partner input")
)
