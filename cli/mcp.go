// ABOUTME: MCP server subcommand
// ABOUTME: Registers event desk tools, resources and prompts and serves them on stdio
package cli

import (
	"context"
	"database/sql"
	"strings"

	"github.com/harperreed/eventdesk/assist"
	"github.com/harperreed/eventdesk/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// NewMCPServer builds the MCP server. Assistant tools are only registered
// when assistant has a provider.
func NewMCPServer(db *sql.DB, assistant *assist.Assistant) *mcp.Server {
	clientHandlers := handlers.NewClientHandlers(db)
	eventHandlers := handlers.NewEventHandlers(db)
	reconcileHandlers := handlers.NewReconcileHandlers(db)
	financeHandlers := handlers.NewFinanceHandlers(db)
	resourceHandlers := handlers.NewResourceHandlers(db)
	promptHandlers := handlers.NewPromptHandlers(db)
	queryHandlers := handlers.NewQueryHandlers(db)
	vizHandlers := handlers.NewVizHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "eventdesk",
		Version: Version,
	}, nil)

	// Clients and staff
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_client",
		Description: "Add a new client company",
	}, clientHandlers.AddClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_clients",
		Description: "Search clients by company name, contact or email",
	}, clientHandlers.FindClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_client",
		Description: "Update a client's details. Renaming does not rewrite event client names",
	}, clientHandlers.UpdateClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_client",
		Description: "Delete a client. Events keep their free-text client name",
	}, clientHandlers.DeleteClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_user",
		Description: "Add a staff member with a role and optional default commission rate",
	}, clientHandlers.AddUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_users",
		Description: "List staff members, optionally filtered by role",
	}, clientHandlers.ListUsers)

	// Events
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_event",
		Description: "Create an event. The client name is free text and is linked when it matches a known client exactly",
	}, eventHandlers.AddEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "List events with revenue, cost, profit and margin, with filtering and sorting",
	}, eventHandlers.ListEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_event",
		Description: "Update an event's details, status or payment status",
	}, eventHandlers.UpdateEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_line_item",
		Description: "Append a cost line item to an event's cost tracker",
	}, eventHandlers.AddLineItem)

	// Reconciliation
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_unresolved_clients",
		Description: "List events whose client name matches no known client, with a suggested client when the match is confident",
	}, reconcileHandlers.FindUnresolvedClients)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "link_event_client",
		Description: "Link an event to an existing client, rewriting its client name",
	}, reconcileHandlers.LinkEventClient)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_client_from_event",
		Description: "Create a new client from an event's client name and contact",
	}, reconcileHandlers.CreateClientFromEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ignore_event",
		Description: "Hide an event from reconciliation",
	}, reconcileHandlers.IgnoreEvent)

	// Finance
	mcp.AddTool(server, &mcp.Tool{
		Name:        "event_financials",
		Description: "Revenue, cost, profit and margin for one event",
	}, financeHandlers.EventFinancials)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "portfolio_totals",
		Description: "Totals across events, optionally filtered and broken down by status",
	}, financeHandlers.PortfolioTotals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "commission_summary",
		Description: "Total, paid and pending commission for every sales user",
	}, financeHandlers.CommissionSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "commission_ledger",
		Description: "Per-event commission entries for profitable events",
	}, financeHandlers.CommissionLedger)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mark_commission_paid",
		Description: "Mark an event's commission as paid out",
	}, financeHandlers.MarkCommissionPaid)

	// Query and visualization
	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_eventdesk",
		Description: "Flexible query across events, clients and users with filters such as status, dates and revenue or profit ranges",
	}, queryHandlers.Query)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "GraphViz DOT graph of salespeople, their events and the clients those events are for",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Portfolio totals, reconciliation backlog, unpaid events and commissions at a glance",
	}, vizHandlers.Dashboard)

	if assistant.Enabled() {
		assistHandlers := handlers.NewAssistHandlers(db, assistant)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "suggest_line_item_price",
			Description: "Ask the AI assistant to price a line item",
		}, assistHandlers.SuggestLineItemPrice)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "analyze_event_risk",
			Description: "Ask the AI assistant to review an event's budget for risks",
		}, assistHandlers.AnalyzeEventRisk)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "extract_line_items",
			Description: "Extract cost line items from a free-text event brief",
		}, assistHandlers.ExtractLineItems)
	}

	for _, uri := range handlers.ResourceURIs {
		name := strings.TrimPrefix(uri, "eventdesk://")
		server.AddResource(&mcp.Resource{
			URI:      uri,
			Name:     name,
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "eventdesk://clients/{id}",
		Name:        "client",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "eventdesk://events/{id}",
		Name:        "event",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "event-review",
		Description: "Review an event's budget, margin and open tasks",
		Arguments: []*mcp.PromptArgument{
			{Name: "event_id", Description: "Event to review", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "reconcile-clients",
		Description: "Walk through events whose client is not yet known",
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, db *sql.DB, assistant *assist.Assistant) error {
	log.Info().Bool("assistant", assistant.Enabled()).Msg("starting eventdesk MCP server")

	server := NewMCPServer(db, assistant)
	return server.Run(ctx, &mcp.StdioTransport{})
}
