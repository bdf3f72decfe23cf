package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `fairdeck runs a two-partner household chore deck as Cards → Deals → Negotiations.

Core concepts (keep this mental model small):
- Card: one recurring chore with category, difficulty (1-3), frequency, and a time estimate in minutes.
- Partner: always exactly partner-a and partner-b per household. Preferences and stats live on the partner.
- Game: the active session. At most one per household; dealing and trading require one.
- Deal: assigns every unassigned active card to a partner in one of five modes.
- Negotiation: a trade proposal over held cards; only the receiving partner may respond.

Rules of engagement (default workflow):
1) Seed: call seed_deck once per household to load the standard deck (safe to repeat, existing cards are skipped).
2) Start: call start_game with a deal_mode and optional rules.
3) Deal: call deal_cards; holdings land on the partners and on each card's holder.
4) Rebalance: propose_trade offers held cards to the other partner; respond_trade accepts, rejects, or counters.
   - A card can sit in only one open negotiation at a time.
   - Rejecting restores the cards to the statuses they had before the proposal.
5) Inspect: get_game for the live snapshot, list_negotiations for the trade log, get_partner_stats for totals.
6) Finish: end_game deactivates the session; holdings and stats stay as they are.

Transport notes:
- HTTP: pass the acting partner via the X-Partner-Id header (partner-a or partner-b).
- Stdio: pass the acting partner via _meta.partner_id; tools also accept explicit partner arguments.

Docs (progressive disclosure):
- fairdeck://docs/index (what to read when)
- fairdeck://docs/deal-modes (the five modes and their guarantees)
- fairdeck://docs/negotiation (trade lifecycle and edge cases)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "fairdeck://docs/index",
		Name:        "docs_index",
		Title:       "fairdeck docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# fairdeck: Agent Docs Index

Keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`seed_deck`" + ` to load the standard chore deck.
2. ` + "`start_game`" + ` with a deal mode and optional house rules.
3. ` + "`deal_cards`" + ` to split the deck between partner-a and partner-b.
4. Trade with ` + "`propose_trade`" + ` / ` + "`respond_trade`" + ` until both partners are happy.
5. ` + "`end_game`" + ` to close the session.

## Docs (read on demand)

- ` + "`fairdeck://docs/deal-modes`" + ` — what each of the five modes optimizes for.
- ` + "`fairdeck://docs/negotiation`" + ` — trade lifecycle, counters, and conflict rules.

## Capabilities & intentional limitations

- Exactly two partners per household; there is no multi-partner mode.
- ` + "`list_cards`" + ` returns lightweight refs without history; use ` + "`get_card`" + ` for the full record.
- Browse tools can return large result sets if you omit ` + "`limit`" + `.
`,
	},
	{
		URI:         "fairdeck://docs/deal-modes",
		Name:        "docs_deal_modes",
		Title:       "Deal modes",
		Description: "The five deal modes, what each optimizes for, and the guarantees they share.",
		Content: `# Deal modes

Every deal assigns all unassigned active cards. Paused cards and cards in an open
negotiation are never dealt.

## Modes

- **random**: shuffle and assign. With a minimum per partner the shuffled deck is
  dealt toward the lighter hand, so counts end within one of each other.
- **weighted**: biases each card toward the partner with a matching strong suit
  and the lower running time commitment.
- **draft**: turn-based picks; whoever has committed fewer minutes picks next,
  taking the hardest card in their strong suits, else the cheapest remaining.
- **auction**: cards go hardest-first; both partners start from equal time
  budgets and the richer budget wins each card, paying its time estimate.
- **quick**: deterministic split by deck order, for a no-questions re-deal. The
  same deck always produces the same holdings.

## Shared guarantees

- Both partners end at or above ` + "`min_cards_per_partner`" + ` when the deck is large
  enough; the deal fails with INSUFFICIENT_CARDS otherwise.
- With ` + "`category_balance_required`" + `, each partner's share of a category is
  capped at just over half of its cards.
`,
	},
	{
		URI:         "fairdeck://docs/negotiation",
		Name:        "docs_negotiation",
		Title:       "Negotiation lifecycle",
		Description: "Trade proposal states, who may respond, counters, and conflict rules.",
		Content: `# Negotiation lifecycle

A negotiation moves ` + "`pending → accepted | rejected | counter`" + `. Once accepted or
rejected it is resolved and immutable; responding again returns ALREADY_RESOLVED.

## Proposing

- Every offered card must have a holder; unassigned cards cannot be traded.
- Offered cards switch to ` + "`in-negotiation`" + ` and cannot be dealt, deleted, or
  offered in another trade until the negotiation resolves.
- Proposing a card that is already in an open negotiation returns
  NEGOTIATION_CONFLICT.

## Responding

- Only the partner the proposal was sent to may respond; anyone else gets
  INVALID_ACTOR and the negotiation is left untouched.
- **accept**: offered cards move to the receiver as ` + "`held`" + `.
- **reject**: every offered card returns to the exact status it had before the
  proposal, including cards that were ` + "`shared`" + ` or ` + "`paused`" + `.
- **counter**: replaces the proposal and keeps the same negotiation open in the
  ` + "`counter`" + ` state, now awaiting the original proposer. Cards dropped from the
  counter revert to their recorded status; cards added are conflict-checked.

## History

Every proposal, counter, and resolution is appended to the negotiation's event
log and to each affected card's history. The log survives ` + "`end_game`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
