// ABOUTME: MCP resource handlers exposing event desk data
// ABOUTME: Read-only JSON views of clients, events, unresolved clients and the portfolio
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "eventdesk://"

// ResourceURIs lists the fixed resources the server advertises.
var ResourceURIs = []string{
	resourceScheme + "clients",
	resourceScheme + "events",
	resourceScheme + "unresolved",
	resourceScheme + "portfolio",
}

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	var data any
	var err error
	switch parts[0] {
	case "clients":
		if len(parts) == 1 {
			data, err = db.ListClients(h.db)
		} else {
			data, err = h.readClient(parts[1])
		}
	case "events":
		if len(parts) == 1 {
			data, err = db.ListEvents(h.db)
		} else {
			data, err = h.readEvent(parts[1])
		}
	case "unresolved":
		data, err = db.FindUnresolvedCandidates(h.db)
	case "portfolio":
		data, err = h.readPortfolio()
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		},
	}}, nil
}

func (h *ResourceHandlers) readClient(idStr string) (any, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid client ID: %w", err)
	}
	client, err := db.GetClient(h.db, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client not found: %s", id)
	}
	return client, nil
}

func (h *ResourceHandlers) readEvent(idStr string) (any, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	event, err := db.GetEvent(h.db, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event not found: %s", id)
	}
	return finance.WithFinancials(*event), nil
}

func (h *ResourceHandlers) readPortfolio() (any, error) {
	events, err := db.ListEvents(h.db)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totals":    finance.PortfolioTotals(events),
		"by_status": finance.ByStatus(events),
	}, nil
}
