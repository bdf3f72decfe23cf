package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// toolDefinition describes a single MCP tool.
type toolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []toolDefinition {
	return []toolDefinition{
		// Game session
		{
			Name:        "start_game",
			Description: "Start a new game session for the household, replacing any active one",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"deal_mode": {
						Type:        "string",
						Description: "Default deal mode for the session (defaults to random)",
						Enum:        []any{"random", "weighted", "draft", "auction", "quick"},
					},
					"rules": {
						Type:        "object",
						Description: "House rules for the session",
						Properties: map[string]*jsonschema.Schema{
							"min_cards_per_partner": {
								Type:        "integer",
								Description: "Minimum cards each partner must hold after a deal",
							},
							"category_balance_required": {
								Type:        "boolean",
								Description: "Spread each category across both partners where possible",
							},
							"check_dependencies": {
								Type:        "boolean",
								Description: "Reserved for decks whose cards reference each other",
							},
							"track_time": {
								Type:        "boolean",
								Description: "Accumulate time estimates into partner stats",
							},
						},
					},
				},
			},
		},
		{
			Name:        "get_game",
			Description: "Get the active game session with holdings and open negotiations",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "end_game",
			Description: "End the active game session and settle partner stats",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "deal_cards",
			Description: "Deal the unassigned cards between the two partners",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"mode": {
						Type:        "string",
						Description: "Deal mode (omit to use the session default)",
						Enum:        []any{"random", "weighted", "draft", "auction", "quick"},
					},
				},
			},
		},

		// Negotiation
		{
			Name:        "propose_trade",
			Description: "Propose handing one or more held cards to the other partner",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"from": {
						Type:        "string",
						Description: "Proposing partner (defaults to the acting partner)",
						Enum:        []any{"partner-a", "partner-b"},
					},
					"to": {
						Type:        "string",
						Description: "Receiving partner",
						Enum:        []any{"partner-a", "partner-b"},
					},
					"card_ids": {
						Type:        "array",
						Description: "Cards offered; each must currently have a holder",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"notes": {
						Type:        "string",
						Description: "Free-form note attached to the proposal",
					},
				},
				Required: []string{"to", "card_ids"},
			},
		},
		{
			Name:        "respond_trade",
			Description: "Accept, reject, or counter an open trade proposal",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"negotiation_id": {
						Type:        "string",
						Description: "Negotiation to respond to",
					},
					"actor": {
						Type:        "string",
						Description: "Responding partner (defaults to the acting partner)",
						Enum:        []any{"partner-a", "partner-b"},
					},
					"decision": {
						Type:        "string",
						Description: "Response decision",
						Enum:        []any{"accept", "reject", "counter"},
					},
					"counter": {
						Type:        "object",
						Description: "Replacement proposal, required when decision is counter",
						Properties: map[string]*jsonschema.Schema{
							"to": {
								Type:        "string",
								Description: "Receiving partner of the counter",
								Enum:        []any{"partner-a", "partner-b"},
							},
							"card_ids": {
								Type:        "array",
								Description: "Cards offered in the counter",
								Items:       &jsonschema.Schema{Type: "string"},
							},
							"notes": {
								Type:        "string",
								Description: "Free-form note attached to the counter",
							},
						},
						Required: []string{"to", "card_ids"},
					},
				},
				Required: []string{"negotiation_id", "decision"},
			},
		},
		{
			Name:        "list_negotiations",
			Description: "List all negotiations of the active game, open and resolved",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},

		// Cards
		{
			Name:        "create_card",
			Description: "Create a custom chore card",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id": {
						Type:        "string",
						Description: "Unique card identifier (optional, will be generated if not provided)",
					},
					"category": {
						Type:        "string",
						Description: "Card category",
						Enum:        []any{"daily-grind", "kids", "home", "magic", "wild", "custom"},
					},
					"title": {
						Type:        "object",
						Description: "Card title",
						Properties:  localizedTextProperties(),
					},
					"description": {
						Type:        "object",
						Description: "Short description of the chore",
						Properties:  localizedTextProperties(),
					},
					"details": {
						Type:        "object",
						Description: "Longer conception-planning-execution notes",
						Properties:  localizedTextProperties(),
					},
					"tags": {
						Type:        "array",
						Description: "Free-form tags",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"difficulty": {
						Type:        "integer",
						Description: "Difficulty from 1 (easy) to 3 (hard)",
					},
					"frequency": {
						Type:        "string",
						Description: "How often the chore recurs",
						Enum:        []any{"daily", "weekly", "monthly", "occasional"},
					},
					"time_estimate": {
						Type:        "integer",
						Description: "Estimated minutes per occurrence",
					},
					"custom_fields": {
						Type:        "array",
						Description: "Extra key/value fields",
						Items: &jsonschema.Schema{
							Type: "object",
							Properties: map[string]*jsonschema.Schema{
								"key":   {Type: "string"},
								"value": {Type: "string"},
							},
							Required: []string{"key", "value"},
						},
					},
				},
				Required: []string{"category", "title", "difficulty", "frequency", "time_estimate"},
			},
		},
		{
			Name:        "get_card",
			Description: "Get a card with its full history",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id": {
						Type:        "string",
						Description: "Card ID",
					},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "update_card",
			Description: "Update card fields; omitted fields are left unchanged",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id": {
						Type:        "string",
						Description: "Card ID",
					},
					"title": {
						Type:        "object",
						Description: "New title",
						Properties:  localizedTextProperties(),
					},
					"description": {
						Type:        "object",
						Description: "New description",
						Properties:  localizedTextProperties(),
					},
					"details": {
						Type:        "object",
						Description: "New details",
						Properties:  localizedTextProperties(),
					},
					"tags": {
						Type:        "array",
						Description: "Replacement tag list",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"difficulty": {
						Type:        "integer",
						Description: "New difficulty from 1 to 3",
					},
					"frequency": {
						Type:        "string",
						Description: "New frequency",
						Enum:        []any{"daily", "weekly", "monthly", "occasional"},
					},
					"time_estimate": {
						Type:        "integer",
						Description: "New estimated minutes",
					},
					"is_active": {
						Type:        "boolean",
						Description: "Pause or reactivate the card",
					},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "delete_card",
			Description: "Delete a card that is not part of an open negotiation",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id": {
						Type:        "string",
						Description: "Card ID",
					},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "list_cards",
			Description: "List cards filtered by category, status, holder, or text query",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"category": {
						Type:        "string",
						Description: "Filter by category",
						Enum:        []any{"daily-grind", "kids", "home", "magic", "wild", "custom"},
					},
					"status": {
						Type:        "string",
						Description: "Filter by status",
						Enum:        []any{"unassigned", "held", "in-negotiation", "shared", "paused"},
					},
					"holder": {
						Type:        "string",
						Description: "Filter by holding partner",
						Enum:        []any{"partner-a", "partner-b"},
					},
					"unassigned": {
						Type:        "boolean",
						Description: "Only cards with no holder",
					},
					"active_only": {
						Type:        "boolean",
						Description: "Exclude paused cards",
					},
					"query": {
						Type:        "string",
						Description: "Case-insensitive match against title and description",
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of cards to return",
					},
					"offset": {
						Type:        "integer",
						Description: "Number of cards to skip",
					},
				},
			},
		},
		{
			Name:        "seed_deck",
			Description: "Load the standard deck into the household, skipping cards already present",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},

		// Partners
		{
			Name:        "list_partners",
			Description: "List both partners with their preferences and stats",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
		{
			Name:        "update_preferences",
			Description: "Update a partner's name, card preferences, or availability",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"partner_id": {
						Type:        "string",
						Description: "Partner to update (defaults to the acting partner)",
						Enum:        []any{"partner-a", "partner-b"},
					},
					"name": {
						Type:        "string",
						Description: "Display name",
					},
					"favorite_cards": {
						Type:        "array",
						Description: "Card IDs the partner prefers to hold",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"avoid_cards": {
						Type:        "array",
						Description: "Card IDs the partner prefers to avoid",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"strong_suits": {
						Type:        "array",
						Description: "Categories the partner is good at",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"availability": {
						Type:        "object",
						Description: "Weekday availability as hour ranges keyed by day name",
					},
				},
			},
		},
		{
			Name:        "get_partner_stats",
			Description: "Get cumulative stats for a partner",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"partner_id": {
						Type:        "string",
						Description: "Partner to inspect (defaults to the acting partner)",
						Enum:        []any{"partner-a", "partner-b"},
					},
				},
			},
		},

		// Export
		{
			Name:        "export_household",
			Description: "Export partners, cards with history, and the active game as one payload",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
		},
	}
}

func localizedTextProperties() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"en": {Type: "string", Description: "English text"},
		"he": {Type: "string", Description: "Hebrew text"},
	}
}
