// ABOUTME: Universal query tool handler
// ABOUTME: Filters events, clients and users with one flexible tool
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryHandlers struct {
	db *sql.DB
}

func NewQueryHandlers(database *sql.DB) *QueryHandlers {
	return &QueryHandlers{db: database}
}

type QueryInput struct {
	EntityType string         `json:"entity_type" jsonschema:"Type of entity to query (event, client, user)"`
	Query      string         `json:"query,omitempty" jsonschema:"Search text (event name/client/location, client name/contact/email, user name)"`
	Filters    map[string]any `json:"filters,omitempty" jsonschema:"Additional filters. event: status, payment_status, event_type, salesperson_id, from, to, min_revenue, max_revenue, min_profit, max_profit. client: client_status. user: role"`
	Limit      int            `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryOutput struct {
	EntityType string `json:"entity_type"`
	Results    []any  `json:"results"`
	Count      int    `json:"count"`
}

func (h *QueryHandlers) Query(_ context.Context, request *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Limit == 0 {
		input.Limit = 10
	}

	switch input.EntityType {
	case "event":
		return h.queryEvents(input)
	case "client":
		return h.queryClients(input)
	case "user":
		return h.queryUsers(input)
	default:
		return nil, QueryOutput{}, fmt.Errorf("invalid entity_type: %s (valid: event, client, user)", input.EntityType)
	}
}

func (h *QueryHandlers) queryEvents(input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	filter := listing.EventFilter{
		Query:         input.Query,
		Status:        stringFilter(input.Filters, "status"),
		PaymentStatus: stringFilter(input.Filters, "payment_status"),
		EventType:     stringFilter(input.Filters, "event_type"),
	}

	if s := stringFilter(input.Filters, "salesperson_id"); s != "" {
		id, err := parseID("salesperson_id", s)
		if err != nil {
			return nil, QueryOutput{}, err
		}
		filter.SalespersonID = &id
	}
	if s := stringFilter(input.Filters, "from"); s != "" {
		from, err := parseDate(s)
		if err != nil {
			return nil, QueryOutput{}, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = &from
	}
	if s := stringFilter(input.Filters, "to"); s != "" {
		to, err := parseDate(s)
		if err != nil {
			return nil, QueryOutput{}, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = &to
	}

	events, err := db.ListEvents(h.db)
	if err != nil {
		return nil, QueryOutput{}, fmt.Errorf("failed to list events: %w", err)
	}

	minRevenue, hasMinRevenue := numberFilter(input.Filters, "min_revenue")
	maxRevenue, hasMaxRevenue := numberFilter(input.Filters, "max_revenue")
	minProfit, hasMinProfit := numberFilter(input.Filters, "min_profit")
	maxProfit, hasMaxProfit := numberFilter(input.Filters, "max_profit")

	results := []any{}
	for _, ef := range finance.WithFinancialsAll(filter.Apply(events)) {
		if len(results) == input.Limit {
			break
		}
		if hasMinRevenue && ef.Revenue < minRevenue {
			continue
		}
		if hasMaxRevenue && ef.Revenue > maxRevenue {
			continue
		}
		if hasMinProfit && ef.Profit < minProfit {
			continue
		}
		if hasMaxProfit && ef.Profit > maxProfit {
			continue
		}
		results = append(results, eventToOutput(ef.Event))
	}

	return nil, QueryOutput{EntityType: "event", Results: results, Count: len(results)}, nil
}

func (h *QueryHandlers) queryClients(input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	clients, err := db.FindClients(h.db, input.Query, input.Limit)
	if err != nil {
		return nil, QueryOutput{}, fmt.Errorf("failed to find clients: %w", err)
	}

	status := stringFilter(input.Filters, "client_status")
	results := []any{}
	for i := range clients {
		if status != "" && !strings.EqualFold(clients[i].ClientStatus, status) {
			continue
		}
		results = append(results, clientToOutput(&clients[i]))
	}

	return nil, QueryOutput{EntityType: "client", Results: results, Count: len(results)}, nil
}

func (h *QueryHandlers) queryUsers(input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	users, err := db.ListUsers(h.db)
	if err != nil {
		return nil, QueryOutput{}, fmt.Errorf("failed to list users: %w", err)
	}

	role := stringFilter(input.Filters, "role")
	q := strings.ToLower(strings.TrimSpace(input.Query))
	results := []any{}
	for i := range users {
		if len(results) == input.Limit {
			break
		}
		if role != "" && !strings.EqualFold(users[i].Role, role) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(users[i].Name), q) {
			continue
		}
		results = append(results, userToOutput(&users[i]))
	}

	return nil, QueryOutput{EntityType: "user", Results: results, Count: len(results)}, nil
}

func stringFilter(filters map[string]any, key string) string {
	s, _ := filters[key].(string)
	return strings.TrimSpace(s)
}

// numberFilter reads a JSON number filter. JSON numbers decode as float64.
func numberFilter(filters map[string]any, key string) (float64, bool) {
	v, ok := filters[key].(float64)
	return v, ok
}
