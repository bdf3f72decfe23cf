package negotiation

import (
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// Status represents the lifecycle state of a negotiation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusCounter  Status = "counter"
)

// Open reports whether the negotiation still accepts responses.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusCounter
}

// Decision is a response to an open negotiation.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionReject  Decision = "reject"
	DecisionCounter Decision = "counter"
)

// EventType is the kind of event recorded on a negotiation.
type EventType string

const (
	EventProposed  EventType = "proposed"
	EventCountered EventType = "countered"
	EventAccepted  EventType = "accepted"
	EventRejected  EventType = "rejected"
)

// Proposal describes a requested card transfer.
type Proposal struct {
	From    partner.PartnerID `json:"from"`
	To      partner.PartnerID `json:"to"`
	CardIDs []string          `json:"cards"`
	Notes   string            `json:"notes,omitempty"`
}

// Event is one entry in a negotiation's append-only history.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     partner.PartnerID `json:"actor"`
	Details   map[string]any    `json:"details,omitempty"`
}

// Negotiation is a proposal process to transfer cards between partners.
//
// Invariant: at most one open negotiation references a given card, and every
// referenced card carries the in-negotiation status while the negotiation is
// open. PriorStatuses remembers each card's pre-negotiation status so a
// reject can restore it exactly.
type Negotiation struct {
	ID            string                 `json:"id"`
	HouseholdID   string                 `json:"household_id"`
	GameID        string                 `json:"game_id,omitempty"`
	Initiator     partner.PartnerID      `json:"initiator"`
	CardIDs       []string               `json:"card_ids"`
	Proposal      Proposal               `json:"proposal"`
	Status        Status                 `json:"status"`
	PriorStatuses map[string]card.Status `json:"prior_statuses,omitempty"`
	History       []Event                `json:"history,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	ModifiedAt    time.Time              `json:"modified_at"`
}

// Clone returns a deep copy of the negotiation.
func (n *Negotiation) Clone() *Negotiation {
	out := *n
	out.CardIDs = append([]string(nil), n.CardIDs...)
	out.Proposal.CardIDs = append([]string(nil), n.Proposal.CardIDs...)
	if n.PriorStatuses != nil {
		out.PriorStatuses = make(map[string]card.Status, len(n.PriorStatuses))
		for id, status := range n.PriorStatuses {
			out.PriorStatuses[id] = status
		}
	}
	if n.History != nil {
		out.History = append([]Event(nil), n.History...)
	}
	return &out
}
