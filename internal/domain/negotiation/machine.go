package negotiation

import (
	"sort"
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
	"github.com/google/uuid"
)

// The machine is a synchronous pure computation over an in-memory snapshot:
// it mutates the negotiation and card structs it is handed and nothing else.
// The game session controller owns locking and persistence.

// CardSet indexes the cards a negotiation may touch.
type CardSet map[string]*card.Card

// openChecker reports whether another open negotiation references a card.
type openChecker func(cardID string) bool

// Propose creates a negotiation in the pending state, marks the referenced
// cards in-negotiation and records their prior statuses.
func Propose(householdID string, proposal Proposal, cards CardSet, hasOpen openChecker, now time.Time) (*Negotiation, error) {
	if err := validateProposal(proposal); err != nil {
		return nil, err
	}

	targets, err := resolveCards(proposal.CardIDs, cards, hasOpen)
	if err != nil {
		return nil, err
	}

	n := &Negotiation{
		ID:            uuid.NewString(),
		HouseholdID:   householdID,
		Initiator:     proposal.From,
		CardIDs:       append([]string(nil), proposal.CardIDs...),
		Proposal:      proposal,
		Status:        StatusPending,
		PriorStatuses: make(map[string]card.Status, len(targets)),
		CreatedAt:     now,
		ModifiedAt:    now,
	}

	for _, c := range targets {
		n.PriorStatuses[c.ID] = c.Status
		c.Status = card.StatusInNegotiation
	}

	n.History = append(n.History, Event{
		ID:        uuid.NewString(),
		Type:      EventProposed,
		Timestamp: now,
		Actor:     proposal.From,
		Details:   map[string]any{"cards": len(targets), "notes": proposal.Notes},
	})

	return n, nil
}

// Respond applies a decision to an open negotiation.
//
// accept: every referenced card moves to the proposal's target partner in
// held status and gains negotiated/assigned history entries; terminal.
// reject: referenced cards revert to their pre-negotiation status; terminal.
// counter: the proposal is replaced, the card set reconciled, and the
// negotiation stays open in the counter state.
func Respond(n *Negotiation, actor partner.PartnerID, decision Decision, counter *Proposal, cards CardSet, hasOpen openChecker, now time.Time) error {
	if !n.Status.Open() {
		return ErrAlreadyResolved
	}
	if !actor.Valid() {
		return ErrInvalidInput
	}
	if actor != n.Proposal.To {
		return ErrInvalidActor
	}

	switch decision {
	case DecisionAccept:
		return accept(n, actor, cards, now)
	case DecisionReject:
		return reject(n, actor, cards, now)
	case DecisionCounter:
		if counter == nil {
			return ErrInvalidInput
		}
		return counterPropose(n, actor, *counter, cards, hasOpen, now)
	default:
		return ErrInvalidInput
	}
}

func accept(n *Negotiation, actor partner.PartnerID, cards CardSet, now time.Time) error {
	targets, err := requireCards(n.Proposal.CardIDs, cards)
	if err != nil {
		return err
	}

	to := n.Proposal.To
	for _, c := range targets {
		holder := to
		c.Holder = &holder
		c.Status = card.StatusHeld
		c.Metadata.ModifiedAt = now
		c.History = append(c.History,
			card.HistoryEntry{
				ID:          uuid.NewString(),
				Action:      card.ActionNegotiated,
				Timestamp:   now,
				PerformedBy: actor,
				Details:     map[string]any{"negotiation_id": n.ID},
			},
			card.HistoryEntry{
				ID:          uuid.NewString(),
				Action:      card.ActionAssigned,
				Timestamp:   now,
				PerformedBy: actor,
				Details:     map[string]any{"holder": string(to)},
			},
		)
	}

	n.Status = StatusAccepted
	n.ModifiedAt = now
	n.History = append(n.History, Event{
		ID:        uuid.NewString(),
		Type:      EventAccepted,
		Timestamp: now,
		Actor:     actor,
	})
	return nil
}

func reject(n *Negotiation, actor partner.PartnerID, cards CardSet, now time.Time) error {
	targets, err := requireCards(n.Proposal.CardIDs, cards)
	if err != nil {
		return err
	}

	for _, c := range targets {
		if prior, ok := n.PriorStatuses[c.ID]; ok {
			c.Status = prior
		} else {
			c.Status = card.StatusHeld
		}
		c.Metadata.ModifiedAt = now
	}

	n.Status = StatusRejected
	n.ModifiedAt = now
	n.History = append(n.History, Event{
		ID:        uuid.NewString(),
		Type:      EventRejected,
		Timestamp: now,
		Actor:     actor,
	})
	return nil
}

func counterPropose(n *Negotiation, actor partner.PartnerID, counter Proposal, cards CardSet, hasOpen openChecker, now time.Time) error {
	if err := validateProposal(counter); err != nil {
		return err
	}
	// The counter must come from the responder; with two partners this also
	// forces its target back to the previous proposer.
	if counter.From != actor {
		return ErrInvalidActor
	}

	previous := make(map[string]bool, len(n.Proposal.CardIDs))
	for _, id := range n.Proposal.CardIDs {
		previous[id] = true
	}
	next := make(map[string]bool, len(counter.CardIDs))
	for _, id := range counter.CardIDs {
		next[id] = true
	}

	// Cards entering the negotiation are conflict-checked against other open
	// negotiations; cards leaving it revert to their recorded status.
	added := make([]string, 0)
	for _, id := range counter.CardIDs {
		if !previous[id] {
			added = append(added, id)
		}
	}
	entering, err := resolveCards(added, cards, hasOpen)
	if err != nil {
		return err
	}

	for _, id := range n.Proposal.CardIDs {
		if next[id] {
			continue
		}
		c, ok := cards[id]
		if !ok {
			return ErrUnknownCard
		}
		if prior, ok := n.PriorStatuses[id]; ok {
			c.Status = prior
		}
		delete(n.PriorStatuses, id)
		c.Metadata.ModifiedAt = now
	}

	for _, c := range entering {
		n.PriorStatuses[c.ID] = c.Status
		c.Status = card.StatusInNegotiation
		c.Metadata.ModifiedAt = now
	}

	n.Proposal = counter
	n.CardIDs = append([]string(nil), counter.CardIDs...)
	n.Status = StatusCounter
	n.ModifiedAt = now
	n.History = append(n.History, Event{
		ID:        uuid.NewString(),
		Type:      EventCountered,
		Timestamp: now,
		Actor:     actor,
		Details:   map[string]any{"cards": len(counter.CardIDs), "notes": counter.Notes},
	})
	return nil
}

func validateProposal(p Proposal) error {
	if !p.From.Valid() || !p.To.Valid() || p.From == p.To {
		return ErrInvalidInput
	}
	if len(p.CardIDs) == 0 {
		return ErrInvalidInput
	}
	seen := make(map[string]bool, len(p.CardIDs))
	for _, id := range p.CardIDs {
		if id == "" || seen[id] {
			return ErrInvalidInput
		}
		seen[id] = true
	}
	return nil
}

// resolveCards looks up proposal cards, rejecting unknown, unassigned or
// already-negotiated ones.
func resolveCards(ids []string, cards CardSet, hasOpen openChecker) ([]*card.Card, error) {
	out := make([]*card.Card, 0, len(ids))
	for _, id := range ids {
		c, ok := cards[id]
		if !ok {
			return nil, ErrUnknownCard
		}
		if c.Status == card.StatusInNegotiation {
			return nil, ErrConflict
		}
		if hasOpen != nil && hasOpen(id) {
			return nil, ErrConflict
		}
		if c.Holder == nil {
			return nil, ErrInvalidInput
		}
		out = append(out, c)
	}
	return out, nil
}

func requireCards(ids []string, cards CardSet) ([]*card.Card, error) {
	ordered := append([]string(nil), ids...)
	sort.Strings(ordered)
	out := make([]*card.Card, 0, len(ordered))
	for _, id := range ordered {
		c, ok := cards[id]
		if !ok {
			return nil, ErrUnknownCard
		}
		out = append(out, c)
	}
	return out, nil
}
