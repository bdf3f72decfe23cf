package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Cards    CardService
	Partners PartnerService
	Games    GameService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      HouseholdResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "fairdeck",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Add middleware (auth + actor extraction)
	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		// HTTP mode: auth based on config
		if cfg.AuthEnabled {
			server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
		} else {
			server.AddReceivingMiddleware(noAuthMiddleware("default"))
		}
	}
	server.AddReceivingMiddleware(actorMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	// Register all tools
	registerTools(server, cfg.Services)

	return server
}

// registerTools wires the tool catalog to the dispatch handler. Results are
// returned as JSON text content; domain errors become tool errors carrying the
// serialized APIError so clients can read the code and recovery hint.
func registerTools(server *sdkmcp.Server, services Services) {
	handler := NewHandler(services.Cards, services.Partners, services.Games)

	for _, def := range buildToolCatalog() {
		def := def

		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}

			result, err := handler.Handle(ctx, getHouseholdID(ctx), getActorID(ctx), def.Name, args)
			if err != nil {
				return toolError(err), nil
			}

			payload, err := json.Marshal(result)
			if err != nil {
				return nil, err
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
			}, nil
		})
	}
}

func toolError(err error) *sdkmcp.CallToolResult {
	var text string
	if apiErr, ok := err.(*APIError); ok {
		if payload, merr := json.Marshal(apiErr); merr == nil {
			text = string(payload)
		}
	}
	if text == "" {
		text = err.Error()
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}
