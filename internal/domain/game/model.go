package game

import (
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/deal"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// Rules constrains deals and negotiations for one session. Immutable unless
// explicitly reconfigured by starting a new game.
type Rules struct {
	MinCardsPerPartner      int  `json:"min_cards_per_partner"`
	CategoryBalanceRequired bool `json:"category_balance_required"`
	CheckDependencies       bool `json:"check_dependencies"`
	TrackTime               bool `json:"track_time"`
}

// DealRules projects the session rules onto the deal engine's contract.
func (r Rules) DealRules() deal.Rules {
	return deal.Rules{
		MinCardsPerPartner:      r.MinCardsPerPartner,
		CategoryBalanceRequired: r.CategoryBalanceRequired,
	}
}

// State is the authoritative session aggregate. The Service is its sole
// mutator; everything handed out is a deep copy.
type State struct {
	ID           string                    `json:"id"`
	HouseholdID  string                    `json:"household_id"`
	Partners     partner.Pair              `json:"partners"`
	Cards        []card.Card               `json:"cards"`
	Negotiations []negotiation.Negotiation `json:"negotiations"`
	DealMode     deal.Mode                 `json:"deal_mode"`
	Rules        Rules                     `json:"rules"`
	IsActive     bool                      `json:"is_active"`
	DealHistory  []string                  `json:"deal_history,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	ModifiedAt   time.Time                 `json:"modified_at"`
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := *s
	out.Partners.A = *s.Partners.A.Clone()
	out.Partners.B = *s.Partners.B.Clone()
	out.Cards = make([]card.Card, len(s.Cards))
	for i := range s.Cards {
		out.Cards[i] = *s.Cards[i].Clone()
	}
	out.Negotiations = make([]negotiation.Negotiation, len(s.Negotiations))
	for i := range s.Negotiations {
		out.Negotiations[i] = *s.Negotiations[i].Clone()
	}
	out.DealHistory = append([]string(nil), s.DealHistory...)
	return &out
}

func (s *State) cardByID(id string) *card.Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

func (s *State) negotiationByID(id string) *negotiation.Negotiation {
	for i := range s.Negotiations {
		if s.Negotiations[i].ID == id {
			return &s.Negotiations[i]
		}
	}
	return nil
}

// hasOpenNegotiationFor reports whether an open negotiation other than the
// excluded one references the card.
func (s *State) hasOpenNegotiationFor(cardID, excludeID string) bool {
	for i := range s.Negotiations {
		n := &s.Negotiations[i]
		if n.ID == excludeID || !n.Status.Open() {
			continue
		}
		for _, id := range n.CardIDs {
			if id == cardID {
				return true
			}
		}
	}
	return false
}

// DealResult reports the outcome of a completed deal.
type DealResult struct {
	DealID     string          `json:"deal_id"`
	Mode       deal.Mode       `json:"mode"`
	Assignment deal.Assignment `json:"assignment"`
	Dealt      int             `json:"dealt"`
}
