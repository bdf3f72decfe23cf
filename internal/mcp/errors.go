package mcp

import (
	"errors"
	"fmt"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/deal"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/fairdeck/fairdeck/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, card.ErrCardNotFound):
		return &APIError{Code: "CARD_NOT_FOUND", Message: "card not found", RecoveryHint: "Check the card ID with list_cards"}
	case errors.Is(err, card.ErrCardInNegotiation):
		return &APIError{Code: "CARD_IN_NEGOTIATION", Message: "card is part of an open negotiation", RecoveryHint: "Resolve the negotiation first"}
	case errors.Is(err, card.ErrInvalidInput):
		return &APIError{Code: "INVALID_CARD_INPUT", Message: "invalid card input", RecoveryHint: "Title, category, difficulty (1-3), frequency and time estimate are required"}
	case errors.Is(err, partner.ErrPartnerNotFound):
		return &APIError{Code: "PARTNER_NOT_FOUND", Message: "partner not found", RecoveryHint: "Valid partners are partner-a and partner-b"}
	case errors.Is(err, partner.ErrInvalidPartner):
		return &APIError{Code: "INVALID_PARTNER", Message: "invalid partner id", RecoveryHint: "Valid partners are partner-a and partner-b"}
	case errors.Is(err, deal.ErrInvalidMode):
		return &APIError{Code: "INVALID_DEAL_MODE", Message: "unknown deal mode", RecoveryHint: "Valid modes: random, weighted, draft, auction, quick"}
	case errors.Is(err, deal.ErrInsufficientCards):
		return &APIError{Code: "INSUFFICIENT_CARDS", Message: "not enough unassigned cards to satisfy the minimum per partner", RecoveryHint: "Add cards or lower min_cards_per_partner"}
	case errors.Is(err, negotiation.ErrNotFound):
		return &APIError{Code: "NEGOTIATION_NOT_FOUND", Message: "negotiation not found", RecoveryHint: "Check the ID with list_negotiations"}
	case errors.Is(err, negotiation.ErrConflict):
		return &APIError{Code: "NEGOTIATION_CONFLICT", Message: "card already referenced by an open negotiation", RecoveryHint: "Resolve the other negotiation first"}
	case errors.Is(err, negotiation.ErrInvalidActor):
		return &APIError{Code: "INVALID_ACTOR", Message: "only the receiving partner may respond", RecoveryHint: "Respond as the partner the proposal was sent to"}
	case errors.Is(err, negotiation.ErrAlreadyResolved):
		return &APIError{Code: "ALREADY_RESOLVED", Message: "negotiation already resolved", RecoveryHint: "Open a new negotiation instead"}
	case errors.Is(err, negotiation.ErrUnknownCard):
		return &APIError{Code: "UNKNOWN_CARD", Message: "proposal references an unknown card", RecoveryHint: "Check card IDs with list_cards"}
	case errors.Is(err, negotiation.ErrInvalidInput):
		return &APIError{Code: "INVALID_NEGOTIATION_INPUT", Message: "invalid negotiation input", RecoveryHint: "A proposal needs two distinct partners and at least one held card"}
	case errors.Is(err, game.ErrNoActiveGame):
		return &APIError{Code: "NO_ACTIVE_GAME", Message: "no active game", RecoveryHint: "Call start_game first"}
	case errors.Is(err, game.ErrGameEnded):
		return &APIError{Code: "GAME_ENDED", Message: "game has ended", RecoveryHint: "Start a new game to continue"}
	case errors.Is(err, game.ErrInvalidInput):
		return &APIError{Code: "INVALID_GAME_INPUT", Message: "invalid game input", RecoveryHint: "Check deal mode and rules"}
	case errors.Is(err, game.ErrPersistence):
		return &APIError{Code: "PERSISTENCE_FAILURE", Message: "operation applied but could not be saved", Details: err.Error(), RecoveryHint: "The in-memory state is current; retry later operations normally"}
	case errors.Is(err, repository.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found", RecoveryHint: "Check ID spelling"}
	default:
		return nil
	}
}
