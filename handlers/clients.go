// ABOUTME: Client and user MCP tool handlers
// ABOUTME: Implements client add, find, update and delete tools plus the user tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ClientHandlers struct {
	db *sql.DB
}

func NewClientHandlers(database *sql.DB) *ClientHandlers {
	return &ClientHandlers{db: database}
}

type AddClientInput struct {
	CompanyName        string `json:"company_name" jsonschema:"Client company name (required)"`
	PrimaryContactName string `json:"primary_contact_name,omitempty" jsonschema:"Main contact person"`
	Email              string `json:"email,omitempty" jsonschema:"Contact email"`
	ClientStatus       string `json:"client_status,omitempty" jsonschema:"Lead, Active or Inactive (default Lead)"`
	Address            string `json:"address,omitempty" jsonschema:"Postal address"`
	InternalNotes      string `json:"internal_notes,omitempty" jsonschema:"Internal notes, never shown to the client"`
}

func (h *ClientHandlers) AddClient(_ context.Context, request *mcp.CallToolRequest, input AddClientInput) (*mcp.CallToolResult, ClientOutput, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, ClientOutput{}, fmt.Errorf("company_name is required")
	}

	existing, err := db.FindClientByName(h.db, name)
	if err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to check for existing client: %w", err)
	}
	if existing != nil {
		return nil, ClientOutput{}, fmt.Errorf("client %q already exists (id %s)", existing.CompanyName, existing.ID)
	}

	client := &models.Client{
		CompanyName:        name,
		PrimaryContactName: input.PrimaryContactName,
		Email:              input.Email,
		ClientStatus:       input.ClientStatus,
		Address:            input.Address,
		InternalNotes:      input.InternalNotes,
	}
	if err := db.CreateClient(h.db, client); err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}

	return nil, clientToOutput(client), nil
}

type FindClientsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, contact and email)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindClientsOutput struct {
	Clients []ClientOutput `json:"clients"`
}

func (h *ClientHandlers) FindClients(_ context.Context, request *mcp.CallToolRequest, input FindClientsInput) (*mcp.CallToolResult, FindClientsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	clients, err := db.FindClients(h.db, input.Query, limit)
	if err != nil {
		return nil, FindClientsOutput{}, fmt.Errorf("failed to find clients: %w", err)
	}

	result := make([]ClientOutput, len(clients))
	for i := range clients {
		result[i] = clientToOutput(&clients[i])
	}

	return nil, FindClientsOutput{Clients: result}, nil
}

type UpdateClientInput struct {
	ID                 string  `json:"id" jsonschema:"Client ID (required)"`
	CompanyName        *string `json:"company_name,omitempty" jsonschema:"New company name. Events keep their own client name and may need reconciling afterwards"`
	PrimaryContactName *string `json:"primary_contact_name,omitempty" jsonschema:"New main contact"`
	Email              *string `json:"email,omitempty" jsonschema:"New contact email"`
	ClientStatus       *string `json:"client_status,omitempty" jsonschema:"Lead, Active or Inactive"`
	Address            *string `json:"address,omitempty" jsonschema:"New postal address"`
	InternalNotes      *string `json:"internal_notes,omitempty" jsonschema:"New internal notes"`
}

func (h *ClientHandlers) UpdateClient(_ context.Context, request *mcp.CallToolRequest, input UpdateClientInput) (*mcp.CallToolResult, ClientOutput, error) {
	clientID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, ClientOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	client, err := db.GetClient(h.db, clientID)
	if err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, ClientOutput{}, fmt.Errorf("client not found")
	}

	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, ClientOutput{}, fmt.Errorf("company_name can't be empty")
		}
		existing, err := db.FindClientByName(h.db, name)
		if err != nil {
			return nil, ClientOutput{}, fmt.Errorf("failed to check for existing client: %w", err)
		}
		if existing != nil && existing.ID != client.ID {
			return nil, ClientOutput{}, fmt.Errorf("client %q already exists (id %s)", existing.CompanyName, existing.ID)
		}
		client.CompanyName = name
	}
	if input.PrimaryContactName != nil {
		client.PrimaryContactName = *input.PrimaryContactName
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.ClientStatus != nil {
		if !models.IsValidClientStatus(*input.ClientStatus) {
			return nil, ClientOutput{}, fmt.Errorf("invalid client_status: %s", *input.ClientStatus)
		}
		client.ClientStatus = *input.ClientStatus
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.InternalNotes != nil {
		client.InternalNotes = *input.InternalNotes
	}

	if err := db.UpdateClient(h.db, clientID, client); err != nil {
		return nil, ClientOutput{}, fmt.Errorf("failed to update client: %w", err)
	}

	return nil, clientToOutput(client), nil
}

type DeleteClientInput struct {
	ID string `json:"id" jsonschema:"Client ID (required)"`
}

type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ClientHandlers) DeleteClient(_ context.Context, request *mcp.CallToolRequest, input DeleteClientInput) (*mcp.CallToolResult, DeleteOutput, error) {
	clientID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	if err := db.DeleteClient(h.db, clientID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete client: %w", err)
	}

	return nil, DeleteOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted client: %s. Events keep their client name", clientID),
	}, nil
}

type AddUserInput struct {
	Name           string   `json:"name" jsonschema:"Full name (required)"`
	Email          string   `json:"email,omitempty" jsonschema:"Email address"`
	Role           string   `json:"role" jsonschema:"Admin, Sales or Operations"`
	CommissionRate *float64 `json:"commission_rate,omitempty" jsonschema:"Default commission percent for sales staff"`
}

func (h *ClientHandlers) AddUser(_ context.Context, request *mcp.CallToolRequest, input AddUserInput) (*mcp.CallToolResult, UserOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, UserOutput{}, fmt.Errorf("name is required")
	}

	user := &models.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          input.Email,
		Role:           input.Role,
		CommissionRate: input.CommissionRate,
	}
	if err := db.CreateUser(h.db, user); err != nil {
		return nil, UserOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	return nil, userToOutput(user), nil
}

type ListUsersInput struct {
	Role string `json:"role,omitempty" jsonschema:"Only users with this role"`
}

type ListUsersOutput struct {
	Users []UserOutput `json:"users"`
}

func (h *ClientHandlers) ListUsers(_ context.Context, request *mcp.CallToolRequest, input ListUsersInput) (*mcp.CallToolResult, ListUsersOutput, error) {
	users, err := db.ListUsers(h.db)
	if err != nil {
		return nil, ListUsersOutput{}, fmt.Errorf("failed to list users: %w", err)
	}

	result := []UserOutput{}
	for i := range users {
		if input.Role != "" && !strings.EqualFold(users[i].Role, input.Role) {
			continue
		}
		result = append(result, userToOutput(&users[i]))
	}

	return nil, ListUsersOutput{Users: result}, nil
}
