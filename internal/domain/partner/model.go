package partner

import "time"

// PartnerID identifies one of the two fixed partners.
//
// The pair is a closed set. Balance math in the deal engine relies on there
// being exactly two holders, so this is not a generic collection.
type PartnerID string

const (
	PartnerA PartnerID = "partner-a"
	PartnerB PartnerID = "partner-b"
)

// Valid reports whether the ID names one of the two partners.
func (id PartnerID) Valid() bool {
	return id == PartnerA || id == PartnerB
}

// Other returns the opposite partner.
func (id PartnerID) Other() PartnerID {
	if id == PartnerA {
		return PartnerB
	}
	return PartnerA
}

// DayAvailability describes one weekday in a partner's schedule.
type DayAvailability struct {
	Available bool        `json:"available"`
	Hours     []HourRange `json:"hours,omitempty"`
}

// HourRange is a start/end hour window.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Schedule maps weekday names to availability.
type Schedule map[string]DayAvailability

// Preferences holds a partner's card preferences and availability.
type Preferences struct {
	FavoriteCards []string `json:"favorite_cards,omitempty"`
	AvoidCards    []string `json:"avoid_cards,omitempty"`
	StrongSuits   []string `json:"strong_suits,omitempty"`
	Availability  Schedule `json:"availability,omitempty"`
}

// Streak tracks consecutive completions of a card.
type Streak struct {
	ID            string    `json:"id"`
	CardID        string    `json:"card_id"`
	Count         int       `json:"count"`
	StartDate     time.Time `json:"start_date"`
	LastCompleted time.Time `json:"last_completed"`
}

// Achievement is an unlocked milestone.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnlockedAt  time.Time `json:"unlocked_at"`
	Icon        string    `json:"icon,omitempty"`
}

// Stats is derived from the card repository. It is recomputed whenever card
// assignment changes, never mutated independently.
type Stats struct {
	CurrentCards        int           `json:"current_cards"`
	TotalTimeCommitment int           `json:"total_time_commitment"`
	Streaks             []Streak      `json:"streaks,omitempty"`
	Achievements        []Achievement `json:"achievements,omitempty"`
}

// Theme is the partner's visual theme, carried through for the UI.
type Theme struct {
	Color   string `json:"color"`
	Pattern string `json:"pattern,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// Partner is one member of the household pair.
type Partner struct {
	ID          PartnerID   `json:"id"`
	HouseholdID string      `json:"household_id"`
	Name        string      `json:"name"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `json:"preferences"`
	Stats       Stats       `json:"stats"`
	Theme       Theme       `json:"theme"`
}

// Pair is the fixed two-partner set, indexed by PartnerID.
type Pair struct {
	A Partner
	B Partner
}

// Get returns the partner with the given ID.
func (p Pair) Get(id PartnerID) Partner {
	if id == PartnerA {
		return p.A
	}
	return p.B
}

// Clone returns a deep copy of a partner.
func (p *Partner) Clone() *Partner {
	out := *p
	out.Preferences.FavoriteCards = append([]string(nil), p.Preferences.FavoriteCards...)
	out.Preferences.AvoidCards = append([]string(nil), p.Preferences.AvoidCards...)
	out.Preferences.StrongSuits = append([]string(nil), p.Preferences.StrongSuits...)
	if p.Preferences.Availability != nil {
		avail := make(Schedule, len(p.Preferences.Availability))
		for day, slot := range p.Preferences.Availability {
			slot.Hours = append([]HourRange(nil), slot.Hours...)
			avail[day] = slot
		}
		out.Preferences.Availability = avail
	}
	out.Stats.Streaks = append([]Streak(nil), p.Stats.Streaks...)
	out.Stats.Achievements = append([]Achievement(nil), p.Stats.Achievements...)
	return &out
}
