package mcp

import (
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

type StartGameParams struct {
	DealMode string           `json:"deal_mode,omitempty"`
	Rules    *GameRulesParams `json:"rules,omitempty"`
}

type GameRulesParams struct {
	MinCardsPerPartner      int  `json:"min_cards_per_partner,omitempty"`
	CategoryBalanceRequired bool `json:"category_balance_required,omitempty"`
	CheckDependencies       bool `json:"check_dependencies,omitempty"`
	TrackTime               bool `json:"track_time,omitempty"`
}

type DealCardsParams struct {
	Mode string `json:"mode,omitempty"`
}

type ProposeTradeParams struct {
	From    string   `json:"from,omitempty"`
	To      string   `json:"to"`
	CardIDs []string `json:"card_ids"`
	Notes   string   `json:"notes,omitempty"`
}

type RespondTradeParams struct {
	NegotiationID string              `json:"negotiation_id"`
	Actor         string              `json:"actor,omitempty"`
	Decision      string              `json:"decision"`
	Counter       *ProposeTradeParams `json:"counter,omitempty"`
}

type CreateCardParams struct {
	ID           string             `json:"id,omitempty"`
	Category     card.Category      `json:"category"`
	Title        card.LocalizedText `json:"title"`
	Description  card.LocalizedText `json:"description,omitempty"`
	Details      card.LocalizedText `json:"details,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	Difficulty   int                `json:"difficulty"`
	Frequency    card.Frequency     `json:"frequency"`
	TimeEstimate int                `json:"time_estimate"`
	CustomFields []card.CustomField `json:"custom_fields,omitempty"`
}

type GetCardParams struct {
	ID string `json:"id"`
}

type UpdateCardParams struct {
	ID           string              `json:"id"`
	Title        *card.LocalizedText `json:"title,omitempty"`
	Description  *card.LocalizedText `json:"description,omitempty"`
	Details      *card.LocalizedText `json:"details,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Difficulty   *int                `json:"difficulty,omitempty"`
	Frequency    *card.Frequency     `json:"frequency,omitempty"`
	TimeEstimate *int                `json:"time_estimate,omitempty"`
	IsActive     *bool               `json:"is_active,omitempty"`
}

type DeleteCardParams struct {
	ID string `json:"id"`
}

type ListCardsParams struct {
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	Holder     string `json:"holder,omitempty"`
	Unassigned bool   `json:"unassigned,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
	Query      string `json:"query,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type UpdatePreferencesParams struct {
	PartnerID     string           `json:"partner_id,omitempty"`
	Name          *string          `json:"name,omitempty"`
	FavoriteCards []string         `json:"favorite_cards,omitempty"`
	AvoidCards    []string         `json:"avoid_cards,omitempty"`
	StrongSuits   []string         `json:"strong_suits,omitempty"`
	Availability  partner.Schedule `json:"availability,omitempty"`
}

type GetPartnerStatsParams struct {
	PartnerID string `json:"partner_id,omitempty"`
}

type ListCardsResponse struct {
	Cards []card.Ref `json:"cards"`
	Total int        `json:"total"`
}

type DeleteCardResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type SeedDeckResponse struct {
	Cards []card.Ref `json:"cards"`
	Count int        `json:"count"`
}

type ListPartnersResponse struct {
	Partners []partner.Partner `json:"partners"`
}

type PartnerStatsResponse struct {
	PartnerID partner.PartnerID `json:"partner_id"`
	Name      string            `json:"name"`
	Stats     partner.Stats     `json:"stats"`
}

type ListNegotiationsResponse struct {
	Negotiations []negotiation.Negotiation `json:"negotiations"`
}

type ExportHouseholdResponse struct {
	HouseholdID  string                    `json:"household_id"`
	ExportedAt   time.Time                 `json:"exported_at"`
	Partners     []partner.Partner         `json:"partners"`
	Cards        []card.Card               `json:"cards"`
	Game         *game.State               `json:"game,omitempty"`
	Negotiations []negotiation.Negotiation `json:"negotiations,omitempty"`
}
