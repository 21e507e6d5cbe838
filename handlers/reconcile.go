// ABOUTME: Client reconciliation MCP tool handlers
// ABOUTME: Lists unresolved events and applies link, create and ignore actions
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ReconcileHandlers struct {
	db *sql.DB
}

func NewReconcileHandlers(database *sql.DB) *ReconcileHandlers {
	return &ReconcileHandlers{db: database}
}

type FindUnresolvedInput struct {
	ConfidentOnly bool `json:"confident_only,omitempty" jsonschema:"Only events with a suggestion above the confidence threshold"`
}

type CandidateOutput struct {
	EventID         string        `json:"event_id"`
	EventName       string        `json:"event_name"`
	ClientName      string        `json:"client_name"`
	Score           float64       `json:"score"`
	SuggestedClient *ClientOutput `json:"suggested_client,omitempty"`
}

type FindUnresolvedOutput struct {
	Candidates []CandidateOutput `json:"candidates"`
	Threshold  float64           `json:"threshold"`
}

// FindUnresolvedClients lists events whose client is unknown. A suggestion is
// only included when it clears the confidence threshold.
func (h *ReconcileHandlers) FindUnresolvedClients(_ context.Context, request *mcp.CallToolRequest, input FindUnresolvedInput) (*mcp.CallToolResult, FindUnresolvedOutput, error) {
	candidates, err := db.FindUnresolvedCandidates(h.db)
	if err != nil {
		return nil, FindUnresolvedOutput{}, fmt.Errorf("failed to find unresolved clients: %w", err)
	}

	out := FindUnresolvedOutput{Candidates: []CandidateOutput{}, Threshold: reconcile.ConfidenceThreshold}
	for _, c := range candidates {
		confident := reconcile.Confident(c)
		if input.ConfidentOnly && !confident {
			continue
		}

		co := CandidateOutput{
			EventID:    c.Event.ID.String(),
			EventName:  c.Event.Name,
			ClientName: c.Event.ClientName,
			Score:      c.Score,
		}
		if confident {
			suggested := clientToOutput(c.SuggestedClient)
			co.SuggestedClient = &suggested
		}
		out.Candidates = append(out.Candidates, co)
	}

	return nil, out, nil
}

type LinkEventClientInput struct {
	EventID  string `json:"event_id" jsonschema:"Event to resolve (required)"`
	ClientID string `json:"client_id" jsonschema:"Existing client to link (required)"`
}

func (h *ReconcileHandlers) LinkEventClient(_ context.Context, request *mcp.CallToolRequest, input LinkEventClientInput) (*mcp.CallToolResult, EventOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, EventOutput{}, err
	}
	if input.ClientID == "" {
		return nil, EventOutput{}, reconcile.ErrNoSelection
	}
	clientID, err := parseID("client_id", input.ClientID)
	if err != nil {
		return nil, EventOutput{}, err
	}

	event, err := db.LinkEventToClient(h.db, eventID, clientID)
	if err != nil {
		return nil, EventOutput{}, fmt.Errorf("failed to link event: %w", err)
	}

	return nil, eventToOutput(*event), nil
}

type EventIDInput struct {
	EventID string `json:"event_id" jsonschema:"Event ID (required)"`
}

type CreateClientFromEventOutput struct {
	Client ClientOutput `json:"client"`
	Event  EventOutput  `json:"event"`
}

func (h *ReconcileHandlers) CreateClientFromEvent(_ context.Context, request *mcp.CallToolRequest, input EventIDInput) (*mcp.CallToolResult, CreateClientFromEventOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, CreateClientFromEventOutput{}, err
	}

	client, event, err := db.CreateClientForEvent(h.db, eventID)
	if err != nil {
		return nil, CreateClientFromEventOutput{}, fmt.Errorf("failed to create client: %w", err)
	}

	return nil, CreateClientFromEventOutput{Client: clientToOutput(client), Event: eventToOutput(*event)}, nil
}

type IgnoreEventOutput struct {
	EventID string `json:"event_id"`
	Ignored bool   `json:"ignored"`
}

func (h *ReconcileHandlers) IgnoreEvent(_ context.Context, request *mcp.CallToolRequest, input EventIDInput) (*mcp.CallToolResult, IgnoreEventOutput, error) {
	eventID, err := parseID("event_id", input.EventID)
	if err != nil {
		return nil, IgnoreEventOutput{}, err
	}

	event, err := db.GetEvent(h.db, eventID)
	if err != nil {
		return nil, IgnoreEventOutput{}, fmt.Errorf("failed to fetch event: %w", err)
	}
	if event == nil {
		return nil, IgnoreEventOutput{}, fmt.Errorf("event not found: %s", eventID)
	}

	if err := db.IgnoreEvent(h.db, eventID); err != nil {
		return nil, IgnoreEventOutput{}, fmt.Errorf("failed to ignore event: %w", err)
	}

	return nil, IgnoreEventOutput{EventID: eventID.String(), Ignored: true}, nil
}
