package card

import "github.com/fairdeck/fairdeck/internal/domain/partner"

// ListOptions provides filtering options for listing cards.
type ListOptions struct {
	Category   *Category
	Status     *Status
	Holder     *partner.PartnerID
	Unassigned bool
	ActiveOnly bool
	Query      string
	Limit      int
	Offset     int
}
