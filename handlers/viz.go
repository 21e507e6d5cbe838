// ABOUTME: GraphViz and dashboard MCP handlers
// ABOUTME: Provides generate_graph and dashboard tools for agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db  *sql.DB
	now func() time.Time
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database, now: time.Now}
}

type GenerateGraphInput struct {
	SalespersonID string `json:"salesperson_id,omitempty" jsonschema:"Only graph this salesperson's events"`
	Status        string `json:"status,omitempty" jsonschema:"Only graph events with this status"`
}

type GenerateGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	snap, err := db.LoadSnapshot(h.db)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}

	events := snap.Events
	users := snap.Users
	if input.SalespersonID != "" {
		id, err := parseID("salesperson_id", input.SalespersonID)
		if err != nil {
			return nil, GenerateGraphOutput{}, err
		}
		events = filterEvents(events, func(e models.Event) bool {
			return e.SalespersonID != nil && *e.SalespersonID == id
		})
		users = nil
		for _, u := range snap.Users {
			if u.ID == id {
				users = append(users, u)
			}
		}
	}
	if input.Status != "" {
		events = filterEvents(events, func(e models.Event) bool {
			return strings.EqualFold(e.Status, input.Status)
		})
	}

	dot, err := viz.GenerateEventGraph(ctx, users, snap.Clients, events)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	nodes, edges := countGraph(dot)
	return nil, GenerateGraphOutput{
		DOTSource: dot,
		NodeCount: nodes,
		EdgeCount: edges,
	}, nil
}

// countGraph counts node and edge statements in DOT output. Every node the
// event graph creates is named with a user_, event_ or client_ prefix.
func countGraph(dot string) (nodes, edges int) {
	for _, line := range strings.Split(dot, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "->"):
			edges++
		case strings.HasPrefix(line, "user_"), strings.HasPrefix(line, "event_"), strings.HasPrefix(line, "client_"):
			nodes++
		}
	}
	return nodes, edges
}

type DashboardInput struct{}

type DashboardOutput struct {
	Text              string         `json:"text"`
	Portfolio         finance.Totals `json:"portfolio"`
	UnresolvedClients int            `json:"unresolved_clients"`
	ConfidentMatches  int            `json:"confident_matches"`
	UnpaidCompleted   int            `json:"unpaid_completed"`
	NegativeMargin    []string       `json:"negative_margin"`
}

func (h *VizHandlers) Dashboard(_ context.Context, request *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	snap, err := db.LoadSnapshot(h.db)
	if err != nil {
		return nil, DashboardOutput{}, err
	}

	stats := viz.GenerateDashboardStats(snap.Users, snap.Clients, snap.Events, snap.Ignored, h.now())
	negative := stats.NegativeMarginNames
	if negative == nil {
		negative = []string{}
	}

	return nil, DashboardOutput{
		Text:              viz.RenderDashboard(stats),
		Portfolio:         stats.Portfolio,
		UnresolvedClients: stats.UnresolvedClients,
		ConfidentMatches:  stats.ConfidentMatches,
		UnpaidCompleted:   stats.UnpaidCompleted,
		NegativeMargin:    negative,
	}, nil
}

func filterEvents(events []models.Event, keep func(models.Event) bool) []models.Event {
	var out []models.Event
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
