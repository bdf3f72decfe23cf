package card

import "strings"

// MaxDifficulty bounds card difficulty levels.
const MaxDifficulty = 3

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func validFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyOccasional:
		return true
	}
	return false
}

func validStatus(s Status) bool {
	switch s {
	case StatusUnassigned, StatusHeld, StatusInNegotiation, StatusShared, StatusPaused:
		return true
	}
	return false
}

// ValidateCreateInput validates fields required to create a card.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Title.EN) == "" && strings.TrimSpace(req.Title.HE) == "" {
		return ErrInvalidInput
	}
	if !validCategory(req.Category) {
		return ErrInvalidInput
	}
	if req.Difficulty < 1 || req.Difficulty > MaxDifficulty {
		return ErrInvalidInput
	}
	if !validFrequency(req.Frequency) {
		return ErrInvalidInput
	}
	if req.TimeEstimate <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// CheckInvariant enforces the holder/status relation: a card has no holder
// exactly when it is unassigned.
func CheckInvariant(c *Card) error {
	if !validStatus(c.Status) {
		return ErrInvalidInput
	}
	if c.Holder == nil && c.Status != StatusUnassigned {
		return ErrInvalidInput
	}
	if c.Holder != nil {
		if !c.Holder.Valid() || c.Status == StatusUnassigned {
			return ErrInvalidInput
		}
	}
	return nil
}
