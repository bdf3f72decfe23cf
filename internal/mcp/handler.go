package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/deal"
	"github.com/fairdeck/fairdeck/internal/domain/game"
	"github.com/fairdeck/fairdeck/internal/domain/negotiation"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// CardService defines card operations needed by MCP.
type CardService interface {
	Create(ctx context.Context, householdID string, req card.CreateRequest) (*card.Card, error)
	Get(ctx context.Context, householdID, id string) (*card.Card, error)
	Update(ctx context.Context, householdID string, req card.UpdateRequest) (*card.Card, error)
	Delete(ctx context.Context, householdID, id string) error
	List(ctx context.Context, householdID string, opts card.ListOptions) ([]card.Card, error)
	SeedDeck(ctx context.Context, householdID string, seededBy partner.PartnerID) ([]card.Card, error)
}

// PartnerService defines partner operations needed by MCP.
type PartnerService interface {
	List(ctx context.Context, householdID string) ([]partner.Partner, error)
	Get(ctx context.Context, householdID string, id partner.PartnerID) (*partner.Partner, error)
	UpdatePreferences(ctx context.Context, householdID string, req partner.UpdatePreferencesRequest) (*partner.Partner, error)
}

// GameService defines game session operations needed by MCP.
type GameService interface {
	Start(ctx context.Context, householdID string, req game.StartRequest) (*game.State, error)
	Snapshot(ctx context.Context, householdID string) (*game.State, error)
	End(ctx context.Context, householdID string) (*game.State, error)
	StartDeal(ctx context.Context, householdID string, mode deal.Mode) (*game.DealResult, error)
	RequestNegotiation(ctx context.Context, householdID string, proposal negotiation.Proposal) (*negotiation.Negotiation, error)
	RespondNegotiation(ctx context.Context, householdID string, req game.RespondRequest) (*negotiation.Negotiation, error)
	ListNegotiations(ctx context.Context, householdID string) ([]negotiation.Negotiation, error)
}

// Handler dispatches MCP commands.
type Handler struct {
	cards    CardService
	partners PartnerService
	games    GameService
}

// NewHandler creates a new MCP handler.
func NewHandler(cards CardService, partners PartnerService, games GameService) *Handler {
	return &Handler{
		cards:    cards,
		partners: partners,
		games:    games,
	}
}

// Handle dispatches MCP requests to domain services. actorID names the
// partner the request acts as when the payload doesn't say; it comes from
// the X-Partner-Id header.
func (h *Handler) Handle(ctx context.Context, householdID, actorID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "start_game":
		var req StartGameParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		start := game.StartRequest{DealMode: deal.Mode(req.DealMode)}
		if req.Rules != nil {
			start.Rules = game.Rules{
				MinCardsPerPartner:      req.Rules.MinCardsPerPartner,
				CategoryBalanceRequired: req.Rules.CategoryBalanceRequired,
				CheckDependencies:       req.Rules.CheckDependencies,
				TrackTime:               req.Rules.TrackTime,
			}
		}
		state, err := h.games.Start(ctx, householdID, start)
		if err != nil {
			return nil, mapError(err)
		}
		return state, nil
	case "get_game":
		state, err := h.games.Snapshot(ctx, householdID)
		if err != nil {
			return nil, mapError(err)
		}
		return state, nil
	case "end_game":
		state, err := h.games.End(ctx, householdID)
		if err != nil {
			return nil, mapError(err)
		}
		return state, nil
	case "deal_cards":
		var req DealCardsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.games.StartDeal(ctx, householdID, deal.Mode(req.Mode))
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil
	case "propose_trade":
		var req ProposeTradeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from := resolveActor(req.From, actorID)
		n, err := h.games.RequestNegotiation(ctx, householdID, negotiation.Proposal{
			From:    from,
			To:      partner.PartnerID(req.To),
			CardIDs: req.CardIDs,
			Notes:   req.Notes,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return n, nil
	case "respond_trade":
		var req RespondTradeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		respond := game.RespondRequest{
			NegotiationID: req.NegotiationID,
			Actor:         resolveActor(req.Actor, actorID),
			Decision:      negotiation.Decision(req.Decision),
		}
		if req.Counter != nil {
			respond.Counter = &negotiation.Proposal{
				From:    resolveActor(req.Counter.From, string(respond.Actor)),
				To:      partner.PartnerID(req.Counter.To),
				CardIDs: req.Counter.CardIDs,
				Notes:   req.Counter.Notes,
			}
		}
		n, err := h.games.RespondNegotiation(ctx, householdID, respond)
		if err != nil {
			return nil, mapError(err)
		}
		return n, nil
	case "list_negotiations":
		negotiations, err := h.games.ListNegotiations(ctx, householdID)
		if err != nil {
			return nil, mapError(err)
		}
		return ListNegotiationsResponse{Negotiations: negotiations}, nil
	case "create_card":
		var req CreateCardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.cards.Create(ctx, householdID, card.CreateRequest{
			ID:           req.ID,
			Category:     req.Category,
			Title:        req.Title,
			Description:  req.Description,
			Details:      req.Details,
			IsCustom:     true, // cards created here are user-authored; only seeding makes stock cards
			Tags:         req.Tags,
			Difficulty:   req.Difficulty,
			Frequency:    req.Frequency,
			TimeEstimate: req.TimeEstimate,
			CustomFields: req.CustomFields,
			CreatedBy:    resolveActor("", actorID),
		})
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "get_card":
		var req GetCardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.cards.Get(ctx, householdID, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "update_card":
		var req UpdateCardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.cards.Update(ctx, householdID, card.UpdateRequest{
			ID:           req.ID,
			Title:        req.Title,
			Description:  req.Description,
			Details:      req.Details,
			Tags:         req.Tags,
			Difficulty:   req.Difficulty,
			Frequency:    req.Frequency,
			TimeEstimate: req.TimeEstimate,
			IsActive:     req.IsActive,
			ModifiedBy:   resolveActor("", actorID),
		})
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "delete_card":
		var req DeleteCardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.cards.Delete(ctx, householdID, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeleteCardResponse{Status: "deleted", ID: req.ID}, nil
	case "list_cards":
		var req ListCardsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := card.ListOptions{
			Unassigned: req.Unassigned,
			ActiveOnly: req.ActiveOnly,
			Query:      req.Query,
			Limit:      req.Limit,
			Offset:     req.Offset,
		}
		if req.Category != "" {
			category := card.Category(req.Category)
			opts.Category = &category
		}
		if req.Status != "" {
			status := card.Status(req.Status)
			opts.Status = &status
		}
		if req.Holder != "" {
			holder := partner.PartnerID(req.Holder)
			opts.Holder = &holder
		}
		cards, err := h.cards.List(ctx, householdID, opts)
		if err != nil {
			return nil, mapError(err)
		}
		refs := make([]card.Ref, 0, len(cards))
		for i := range cards {
			refs = append(refs, cards[i].ToRef())
		}
		return ListCardsResponse{Cards: refs, Total: len(refs)}, nil
	case "seed_deck":
		cards, err := h.cards.SeedDeck(ctx, householdID, resolveActor("", actorID))
		if err != nil {
			return nil, mapError(err)
		}
		refs := make([]card.Ref, 0, len(cards))
		for i := range cards {
			refs = append(refs, cards[i].ToRef())
		}
		return SeedDeckResponse{Cards: refs, Count: len(refs)}, nil
	case "list_partners":
		partners, err := h.partners.List(ctx, householdID)
		if err != nil {
			return nil, mapError(err)
		}
		return ListPartnersResponse{Partners: partners}, nil
	case "update_preferences":
		var req UpdatePreferencesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, err := h.partners.UpdatePreferences(ctx, householdID, partner.UpdatePreferencesRequest{
			ID:            resolveActor(req.PartnerID, actorID),
			Name:          req.Name,
			FavoriteCards: req.FavoriteCards,
			AvoidCards:    req.AvoidCards,
			StrongSuits:   req.StrongSuits,
			Availability:  req.Availability,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return p, nil
	case "get_partner_stats":
		var req GetPartnerStatsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		p, err := h.partners.Get(ctx, householdID, resolveActor(req.PartnerID, actorID))
		if err != nil {
			return nil, mapError(err)
		}
		return PartnerStatsResponse{PartnerID: p.ID, Name: p.Name, Stats: p.Stats}, nil
	case "export_household":
		return h.exportHousehold(ctx, householdID)
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// exportHousehold bundles everything the household owns into one payload.
// Cards are exported with full history; a missing active game is not an error.
func (h *Handler) exportHousehold(ctx context.Context, householdID string) (any, error) {
	partners, err := h.partners.List(ctx, householdID)
	if err != nil {
		return nil, mapError(err)
	}

	listed, err := h.cards.List(ctx, householdID, card.ListOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	cards := make([]card.Card, 0, len(listed))
	for i := range listed {
		full, err := h.cards.Get(ctx, householdID, listed[i].ID)
		if err != nil {
			return nil, mapError(err)
		}
		cards = append(cards, *full)
	}

	resp := ExportHouseholdResponse{
		HouseholdID: householdID,
		ExportedAt:  time.Now().UTC(),
		Partners:    partners,
		Cards:       cards,
	}

	state, err := h.games.Snapshot(ctx, householdID)
	if err == nil {
		resp.Game = state
		resp.Negotiations = state.Negotiations
	} else if mapped := MapError(err); mapped == nil || mapped.Code != "NO_ACTIVE_GAME" {
		return nil, mapError(err)
	}

	return resp, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}

// resolveActor picks the explicit partner from the payload, falling back to
// the transport-supplied actor, then to partner-a.
func resolveActor(explicit, fallback string) partner.PartnerID {
	if explicit != "" {
		return partner.PartnerID(explicit)
	}
	if fallback != "" {
		return partner.PartnerID(fallback)
	}
	return partner.PartnerA
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
