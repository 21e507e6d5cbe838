// ABOUTME: Client and user CLI commands
// ABOUTME: Human-friendly commands for adding, updating and removing clients and staff
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/rs/zerolog/log"
)

// AddClientCommand adds a new client
func AddClientCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-client", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	contact := fs.String("contact", "", "Primary contact name")
	email := fs.String("email", "", "Contact email")
	status := fs.String("status", models.ClientStatusLead, "Lead, Active or Inactive")
	address := fs.String("address", "", "Address")
	notes := fs.String("notes", "", "Internal notes")
	_ = parseArgs(fs, args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	existing, err := db.FindClientByName(database, *name)
	if err != nil {
		return fmt.Errorf("failed to check for existing client: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("client %q already exists (ID: %s)", existing.CompanyName, existing.ID)
	}

	client := &models.Client{
		CompanyName:        *name,
		PrimaryContactName: *contact,
		Email:              *email,
		ClientStatus:       *status,
		Address:            *address,
		InternalNotes:      *notes,
	}
	if err := db.CreateClient(database, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	log.Debug().Str("client_id", client.ID.String()).Msg("client created")

	fmt.Printf("✓ Client created: %s (ID: %s)\n", client.CompanyName, client.ID)
	if client.PrimaryContactName != "" {
		fmt.Printf("  Contact: %s\n", client.PrimaryContactName)
	}
	return nil
}

// ListClientsCommand lists clients
func ListClientsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-clients", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, contact or email")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = parseArgs(fs, args)

	clients, err := db.FindClients(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find clients: %w", err)
	}

	if len(clients) == 0 {
		fmt.Println("No clients found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONTACT\tSTATUS\tID")
	fmt.Fprintln(w, "----\t-------\t------\t--")
	for _, c := range clients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.CompanyName, orDash(c.PrimaryContactName), c.ClientStatus, c.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d client(s)\n", len(clients))
	return nil
}

// UpdateClientCommand changes the fields of a client that were passed as flags
func UpdateClientCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-client", flag.ExitOnError)
	name := fs.String("name", "", "Company name")
	contact := fs.String("contact", "", "Primary contact name")
	email := fs.String("email", "", "Contact email")
	status := fs.String("status", "", "Lead, Active or Inactive")
	address := fs.String("address", "", "Address")
	notes := fs.String("notes", "", "Internal notes")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("client ID required")
	}
	client, err := resolveClient(database, fs.Arg(0))
	if err != nil {
		return err
	}
	oldName := client.CompanyName

	changed := 0
	fs.Visit(func(f *flag.Flag) {
		changed++
		switch f.Name {
		case "name":
			client.CompanyName = strings.TrimSpace(*name)
		case "contact":
			client.PrimaryContactName = *contact
		case "email":
			client.Email = *email
		case "status":
			client.ClientStatus = *status
		case "address":
			client.Address = *address
		case "notes":
			client.InternalNotes = *notes
		}
	})
	if changed == 0 {
		return fmt.Errorf("nothing to update (use --name, --contact, --email, --status, --address or --notes)")
	}
	if err := validateClient(database, client); err != nil {
		return err
	}

	if err := db.UpdateClient(database, client.ID, client); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	fmt.Printf("✓ Client updated: %s (ID: %s)\n", client.CompanyName, client.ID.String()[:8])

	if reconcile.Normalize(oldName) != reconcile.Normalize(client.CompanyName) {
		n, err := countEventsNamed(database, oldName)
		if err != nil {
			return err
		}
		if n > 0 {
			fmt.Printf("  %d event(s) still use %q and will show up in reconcile\n", n, oldName)
		}
	}
	return nil
}

// DeleteClientCommand deletes a client. Events keep their client name.
func DeleteClientCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("client ID required")
	}
	client, err := resolveClient(database, args[0])
	if err != nil {
		return err
	}

	if err := db.DeleteClient(database, client.ID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	log.Debug().Str("client_id", client.ID.String()).Msg("client deleted")

	fmt.Printf("✓ Deleted client: %s\n", client.CompanyName)
	return nil
}

// validateClient rejects blank names, unknown statuses and names already
// used by another client.
func validateClient(database *sql.DB, client *models.Client) error {
	if client.CompanyName == "" {
		return fmt.Errorf("company name can't be empty")
	}
	if !models.IsValidClientStatus(client.ClientStatus) {
		return fmt.Errorf("invalid status: %s (valid: Lead, Active, Inactive)", client.ClientStatus)
	}
	existing, err := db.FindClientByName(database, client.CompanyName)
	if err != nil {
		return fmt.Errorf("failed to check for existing client: %w", err)
	}
	if existing != nil && existing.ID != client.ID {
		return fmt.Errorf("client %q already exists (ID: %s)", existing.CompanyName, existing.ID)
	}
	return nil
}

func countEventsNamed(database *sql.DB, name string) (int, error) {
	events, err := db.ListEvents(database)
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}
	n := 0
	for _, e := range events {
		if reconcile.Normalize(e.ClientName) == reconcile.Normalize(name) {
			n++
		}
	}
	return n, nil
}

// AddUserCommand adds a staff member
func AddUserCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	name := fs.String("name", "", "Full name (required)")
	email := fs.String("email", "", "Email")
	role := fs.String("role", models.RoleSales, "Admin, Sales or Operations")
	rate := fs.Float64("commission", -1, "Default commission percent")
	_ = parseArgs(fs, args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	user := &models.User{Name: *name, Email: *email, Role: *role}
	if *rate >= 0 {
		user.CommissionRate = rate
	}
	if err := db.CreateUser(database, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("✓ User created: %s (%s, ID: %s)\n", user.Name, user.Role, user.ID)
	return nil
}

// ListUsersCommand lists staff members
func ListUsersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ExitOnError)
	_ = parseArgs(fs, args)

	users, err := db.ListUsers(database)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLE\tCOMMISSION\tID")
	fmt.Fprintln(w, "----\t----\t----------\t--")
	for _, u := range users {
		rate := "-"
		if u.CommissionRate != nil {
			rate = fmt.Sprintf("%g%%", *u.CommissionRate)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Name, u.Role, rate, u.ID.String()[:8])
	}
	w.Flush()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
