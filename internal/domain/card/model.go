package card

import (
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// Category classifies a chore card.
type Category string

const (
	CategoryDailyGrind Category = "daily-grind"
	CategoryKids       Category = "kids"
	CategoryHome       Category = "home"
	CategoryMagic      Category = "magic"
	CategoryWild       Category = "wild"
	CategoryCustom     Category = "custom"
)

// Categories lists all valid categories.
var Categories = []Category{
	CategoryDailyGrind,
	CategoryKids,
	CategoryHome,
	CategoryMagic,
	CategoryWild,
	CategoryCustom,
}

// Status represents the assignment state of a card.
type Status string

const (
	StatusUnassigned    Status = "unassigned"
	StatusHeld          Status = "held"
	StatusInNegotiation Status = "in-negotiation"
	StatusShared        Status = "shared"
	StatusPaused        Status = "paused"
)

// Frequency describes how often a chore recurs.
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyOccasional Frequency = "occasional"
)

// HistoryAction is the kind of event recorded on a card.
type HistoryAction string

const (
	ActionCreated    HistoryAction = "created"
	ActionAssigned   HistoryAction = "assigned"
	ActionCompleted  HistoryAction = "completed"
	ActionNegotiated HistoryAction = "negotiated"
	ActionModified   HistoryAction = "modified"
)

// LocalizedText carries the two display languages the deck ships with.
type LocalizedText struct {
	EN string `json:"en"`
	HE string `json:"he"`
}

// CustomField is a user-defined attribute on a custom card.
type CustomField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// HistoryEntry is one event in a card's append-only history.
type HistoryEntry struct {
	ID          string            `json:"id"`
	Action      HistoryAction     `json:"action"`
	Timestamp   time.Time         `json:"timestamp"`
	PerformedBy partner.PartnerID `json:"performed_by"`
	Details     map[string]any    `json:"details,omitempty"`
}

// Metadata holds descriptive attributes of a card.
type Metadata struct {
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
	IsCustom     bool      `json:"is_custom"`
	IsActive     bool      `json:"is_active"`
	Tags         []string  `json:"tags,omitempty"`
	Difficulty   int       `json:"difficulty"`
	Frequency    Frequency `json:"frequency"`
	TimeEstimate int       `json:"time_estimate"`
}

// Card represents one chore in the deck.
//
// Invariant: Holder is nil exactly when Status is unassigned.
type Card struct {
	ID           string             `json:"id"`
	HouseholdID  string             `json:"household_id"`
	Category     Category           `json:"category"`
	Title        LocalizedText      `json:"title"`
	Description  LocalizedText      `json:"description"`
	Details      LocalizedText      `json:"details"`
	Holder       *partner.PartnerID `json:"holder,omitempty"`
	Status       Status             `json:"status"`
	CustomFields []CustomField      `json:"custom_fields,omitempty"`
	Metadata     Metadata           `json:"metadata"`
	History      []HistoryEntry     `json:"history,omitempty"`
}

// Ref is a lightweight card reference for listings.
type Ref struct {
	ID           string             `json:"id"`
	Category     Category           `json:"category"`
	Title        LocalizedText      `json:"title"`
	Holder       *partner.PartnerID `json:"holder,omitempty"`
	Status       Status             `json:"status"`
	Difficulty   int                `json:"difficulty"`
	TimeEstimate int                `json:"time_estimate"`
}

// ToRef converts a card to its listing reference.
func (c *Card) ToRef() Ref {
	return Ref{
		ID:           c.ID,
		Category:     c.Category,
		Title:        c.Title,
		Holder:       c.Holder,
		Status:       c.Status,
		Difficulty:   c.Metadata.Difficulty,
		TimeEstimate: c.Metadata.TimeEstimate,
	}
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	out := *c
	if c.Holder != nil {
		holder := *c.Holder
		out.Holder = &holder
	}
	if c.CustomFields != nil {
		out.CustomFields = append([]CustomField(nil), c.CustomFields...)
	}
	if c.Metadata.Tags != nil {
		out.Metadata.Tags = append([]string(nil), c.Metadata.Tags...)
	}
	if c.History != nil {
		out.History = make([]HistoryEntry, len(c.History))
		for i, entry := range c.History {
			out.History[i] = entry
			if entry.Details != nil {
				details := make(map[string]any, len(entry.Details))
				for k, v := range entry.Details {
					details[k] = v
				}
				out.History[i].Details = details
			}
		}
	}
	return &out
}
