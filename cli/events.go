// ABOUTME: Event, line item and task CLI commands
// ABOUTME: Create, list, update and delete events and their cost trackers
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/models"
)

// AddEventCommand adds a new event
func AddEventCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-event", flag.ExitOnError)
	name := fs.String("name", "", "Event name (required)")
	client := fs.String("client", "", "Client name as written on the booking")
	contact := fs.String("contact", models.ContactTBD, "Client contact")
	date := fs.String("date", "", "Event date (YYYY-MM-DD)")
	location := fs.String("location", "", "Venue or city")
	guests := fs.Int("guests", 0, "Expected guests")
	eventType := fs.String("type", "", "Event type")
	salesperson := fs.String("salesperson", "", "Owning salesperson name")
	rate := fs.Float64("commission", -1, "Commission percent for this event")
	notes := fs.String("notes", "", "Notes")
	_ = parseArgs(fs, args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	event := &models.Event{
		Name:          *name,
		ClientName:    *client,
		ClientContact: *contact,
		Location:      *location,
		GuestCount:    *guests,
		EventType:     *eventType,
		Notes:         *notes,
	}
	if *rate >= 0 {
		event.CommissionRate = rate
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", *date)
		}
		event.Date = d
	}
	if *salesperson != "" {
		user, err := db.FindUserByName(database, *salesperson)
		if err != nil {
			return fmt.Errorf("failed to look up salesperson: %w", err)
		}
		if user == nil {
			return fmt.Errorf("salesperson not found: %s", *salesperson)
		}
		event.SalespersonID = &user.ID
	}
	if strings.TrimSpace(*client) != "" {
		known, err := db.FindClientByName(database, *client)
		if err != nil {
			return fmt.Errorf("failed to look up client: %w", err)
		}
		if known != nil {
			event.ClientID = &known.ID
		}
	}

	if err := db.CreateEvent(database, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	fmt.Printf("✓ Event created: %s (ID: %s)\n", event.Name, event.ID)
	if event.ClientName != "" && event.ClientID == nil {
		fmt.Printf("  Client %q is not a known client yet; run 'eventdesk reconcile'\n", event.ClientName)
	}
	return nil
}

// ListEventsCommand lists events with financials
func ListEventsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-events", flag.ExitOnError)
	query := fs.String("query", "", "Search name, client or location")
	status := fs.String("status", "", "Filter by status")
	payment := fs.String("payment", "", "Filter by payment status")
	sortBy := fs.String("sort", "date", "Sort key: "+strings.Join(listing.EventSortKeys, ", "))
	desc := fs.Bool("desc", false, "Sort descending")
	_ = parseArgs(fs, args)

	events, err := db.ListEvents(database)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	filter := listing.EventFilter{Query: *query, Status: *status, PaymentStatus: *payment}
	state := listing.SortState{Key: *sortBy, Direction: listing.Asc}
	if *desc {
		state.Direction = listing.Desc
	}
	rows, err := listing.SortEvents(finance.WithFinancialsAll(filter.Apply(events)), state)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("No events found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tNAME\tCLIENT\tSTATUS\tPAYMENT\tREVENUE\tPROFIT\tMARGIN\tID")
	fmt.Fprintln(w, "----\t----\t------\t------\t-------\t-------\t------\t------\t--")
	for _, ef := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			formatDate(ef.Date), ef.Name, orDash(ef.ClientName), ef.Status, ef.PaymentStatus,
			export.FormatSAR(ef.Revenue), export.FormatSAR(ef.Profit), export.FormatPercent(ef.Margin),
			ef.ID.String()[:8])
	}
	w.Flush()

	fmt.Printf("\nTotal: %d event(s)\n", len(rows))
	return nil
}

// UpdateEventCommand updates fields of an event. Only flags that are set change.
func UpdateEventCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-event", flag.ExitOnError)
	name := fs.String("name", "", "Event name")
	contact := fs.String("contact", "", "Client contact")
	date := fs.String("date", "", "Event date (YYYY-MM-DD)")
	location := fs.String("location", "", "Location")
	guests := fs.Int("guests", 0, "Guest count")
	status := fs.String("status", "", "Event status")
	payment := fs.String("payment", "", "Payment status")
	notes := fs.String("notes", "", "Notes")
	commission := fs.Float64("commission", 0, "Commission percent overriding the salesperson default")
	clearCommission := fs.Bool("clear-commission", false, "Remove the commission override")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	var patch models.EventPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "contact":
			patch.ClientContact = contact
		case "location":
			patch.Location = location
		case "guests":
			patch.GuestCount = guests
		case "notes":
			patch.Notes = notes
		case "commission":
			if *commission < 0 {
				parseErr = fmt.Errorf("invalid --commission: %g", *commission)
			}
			patch.CommissionRate = commission
		case "clear-commission":
			patch.ClearCommissionRate = *clearCommission
		case "status":
			if !models.IsValidEventStatus(*status) {
				parseErr = fmt.Errorf("invalid --status: %s", *status)
			}
			patch.Status = status
		case "payment":
			if !models.IsValidPaymentStatus(*payment) {
				parseErr = fmt.Errorf("invalid --payment: %s", *payment)
			}
			patch.PaymentStatus = payment
		case "date":
			d, err := time.Parse("2006-01-02", *date)
			if err != nil {
				parseErr = fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", *date)
			}
			patch.Date = &d
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update")
	}

	if _, err := db.UpdateEvent(database, event.ID, patch); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	fmt.Printf("✓ Event updated: %s\n", event.Name)
	return nil
}

func DeleteEventCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteEvent(database, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	fmt.Printf("✓ Event deleted: %s\n", event.Name)
	return nil
}

// AddLineItemCommand appends a line item to an event's cost tracker
func AddLineItemCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-item", flag.ExitOnError)
	name := fs.String("name", "", "Item name (required)")
	qty := fs.Float64("qty", 1, "Quantity")
	cost := fs.Float64("cost", 0, "Unit cost in SAR")
	price := fs.Float64("price", 0, "Client price per unit in SAR")
	costType := fs.String("type", models.CostTypeFixed, "fixed, per_guest, rental or labor")
	desc := fs.String("desc", "", "Description")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	item := &models.LineItem{
		Name:           *name,
		Quantity:       *qty,
		UnitCostSAR:    *cost,
		ClientPriceSAR: *price,
		CostType:       *costType,
		Description:    *desc,
	}
	if err := db.AddLineItem(database, event.ID, item); err != nil {
		return fmt.Errorf("failed to add line item: %w", err)
	}

	fmt.Printf("✓ Added %s to %s\n", item.Name, event.Name)
	return nil
}

func RemoveLineItemCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("line item ID required")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid line item ID: %w", err)
	}
	if err := db.DeleteLineItem(database, id); err != nil {
		return err
	}
	fmt.Println("✓ Line item removed")
	return nil
}

// ShowEventCommand prints an event with its cost tracker and tasks
func ShowEventCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}
	ef := finance.WithFinancials(*event)

	fmt.Printf("%s (ID: %s)\n", ef.Name, ef.ID)
	fmt.Printf("  Client:   %s (%s)\n", orDash(ef.ClientName), orDash(ef.ClientContact))
	fmt.Printf("  Date:     %s\n", formatDate(ef.Date))
	fmt.Printf("  Location: %s\n", orDash(ef.Location))
	fmt.Printf("  Guests:   %d\n", ef.GuestCount)
	fmt.Printf("  Status:   %s / %s\n\n", ef.Status, ef.PaymentStatus)

	if len(ef.CostTracker) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tQTY\tUNIT COST\tUNIT PRICE\tTYPE\tID")
		for _, item := range ef.CostTracker {
			fmt.Fprintf(w, "%s\t%g\t%s\t%s\t%s\t%s\n", item.Name, item.Quantity,
				export.FormatSAR(item.UnitCostSAR), export.FormatSAR(item.ClientPriceSAR), orDash(item.CostType), item.ID)
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Printf("Revenue %s  Cost %s  Profit %s  Margin %s\n",
		export.FormatSAR(ef.Revenue), export.FormatSAR(ef.Cost), export.FormatSAR(ef.Profit), export.FormatPercent(ef.Margin))

	if len(ef.Tasks) > 0 {
		fmt.Println("\nTasks:")
		for _, task := range ef.Tasks {
			mark := " "
			if task.Done {
				mark = "x"
			}
			fmt.Printf("  [%s] %s (%s)\n", mark, task.Title, task.ID.String()[:8])
		}
	}
	return nil
}

func AddTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	task := &models.Task{Title: *title}
	if *due != "" {
		d, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid --due %q (use YYYY-MM-DD)", *due)
		}
		task.DueAt = &d
	}
	if err := db.AddTask(database, event.ID, task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("✓ Task added to %s (ID: %s)\n", event.Name, task.ID)
	return nil
}

func CompleteTaskCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("task ID required")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid task ID: %w", err)
	}
	if err := db.SetTaskDone(database, id, true); err != nil {
		return err
	}
	fmt.Println("✓ Task completed")
	return nil
}

// resolveEvent accepts a full event ID or a unique prefix as printed by list-events.
func resolveEvent(database *sql.DB, ref string) (*models.Event, error) {
	if id, err := uuid.Parse(ref); err == nil {
		event, err := db.GetEvent(database, id)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, fmt.Errorf("event not found: %s", ref)
		}
		return event, nil
	}

	events, err := db.ListEvents(database)
	if err != nil {
		return nil, err
	}
	var match *models.Event
	for i := range events {
		if strings.HasPrefix(events[i].ID.String(), strings.ToLower(ref)) {
			if match != nil {
				return nil, fmt.Errorf("event ID prefix %q is ambiguous", ref)
			}
			match = &events[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("event not found: %s", ref)
	}
	return match, nil
}

func resolveClient(database *sql.DB, ref string) (*models.Client, error) {
	if id, err := uuid.Parse(ref); err == nil {
		client, err := db.GetClient(database, id)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("client not found: %s", ref)
		}
		return client, nil
	}

	clients, err := db.ListClients(database)
	if err != nil {
		return nil, err
	}
	var match *models.Client
	for i := range clients {
		if strings.HasPrefix(clients[i].ID.String(), strings.ToLower(ref)) {
			if match != nil {
				return nil, fmt.Errorf("client ID prefix %q is ambiguous", ref)
			}
			match = &clients[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("client not found: %s", ref)
	}
	return match, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
