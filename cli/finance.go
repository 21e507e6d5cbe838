// ABOUTME: Financial reporting CLI commands
// ABOUTME: Portfolio totals, per-event financials and salesperson commissions
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/models"
)

// PortfolioCommand prints portfolio totals, optionally broken down by status
func PortfolioCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("portfolio", flag.ExitOnError)
	status := fs.String("status", "", "Only include events with this status")
	payment := fs.String("payment", "", "Only include events with this payment status")
	byStatus := fs.Bool("by-status", false, "Break totals down by event status")
	_ = parseArgs(fs, args)

	events, err := db.ListEvents(database)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	events = listing.EventFilter{Status: *status, PaymentStatus: *payment}.Apply(events)

	totals := finance.PortfolioTotals(events)
	fmt.Printf("Events:  %d\n", totals.EventCount)
	fmt.Printf("Revenue: %s\n", export.FormatSAR(totals.TotalRevenue))
	fmt.Printf("Cost:    %s\n", export.FormatSAR(totals.TotalCost))
	fmt.Printf("Profit:  %s\n", export.FormatSAR(totals.TotalProfit))
	fmt.Printf("Margin:  %s\n", export.FormatPercent(totals.OverallMargin))

	if *byStatus {
		groups := finance.ByStatus(events)
		statuses := make([]string, 0, len(groups))
		for s := range groups {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tEVENTS\tREVENUE\tPROFIT\tMARGIN")
		for _, s := range statuses {
			t := groups[s]
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", s, t.EventCount,
				export.FormatSAR(t.TotalRevenue), export.FormatSAR(t.TotalProfit), export.FormatPercent(t.OverallMargin))
		}
		w.Flush()
	}
	return nil
}

// FinancialsCommand prints revenue, cost, profit and margin for one event
func FinancialsCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}

	f := finance.Compute(event.CostTracker)
	fmt.Printf("%s\n", event.Name)
	fmt.Printf("  Revenue: %s\n", export.FormatSAR(f.Revenue))
	fmt.Printf("  Cost:    %s\n", export.FormatSAR(f.Cost))
	fmt.Printf("  Profit:  %s\n", export.FormatSAR(f.Profit))
	fmt.Printf("  Margin:  %s\n", export.FormatPercent(f.Margin))
	return nil
}

// CommissionsCommand prints the commission summary for every Sales user
func CommissionsCommand(database *sql.DB, args []string) error {
	users, events, err := loadUsersAndEvents(database)
	if err != nil {
		return err
	}

	summary := finance.CommissionSummary(users, events)
	if len(summary) == 0 {
		fmt.Println("No sales users found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SALESPERSON\tEVENTS\tTOTAL\tPAID\tPENDING")
	fmt.Fprintln(w, "-----------\t------\t-----\t----\t-------")
	for _, s := range summary {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", s.User.Name, s.EventCount,
			export.FormatSAR(s.TotalCommission), export.FormatSAR(s.PaidCommission), export.FormatSAR(s.PendingCommission))
	}
	w.Flush()
	return nil
}

// LedgerCommand prints every commission-bearing event
func LedgerCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("ledger", flag.ExitOnError)
	salesperson := fs.String("salesperson", "", "Only this salesperson's entries")
	unpaid := fs.Bool("unpaid", false, "Only unpaid commissions")
	_ = parseArgs(fs, args)

	users, events, err := loadUsersAndEvents(database)
	if err != nil {
		return err
	}

	var entries []finance.LedgerEntry
	for _, e := range finance.CommissionLedger(users, events) {
		if *salesperson != "" && !strings.EqualFold(e.User.Name, *salesperson) {
			continue
		}
		if *unpaid && e.IsPaid {
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		fmt.Println("No commission entries found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SALESPERSON\tEVENT\tPROFIT\tRATE\tCOMMISSION\tPAID\tID")
	fmt.Fprintln(w, "-----------\t-----\t------\t----\t----------\t----\t--")
	for _, e := range entries {
		paid := "no"
		if e.IsPaid {
			paid = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.User.Name, e.Event.Name,
			export.FormatSAR(e.Profit), export.FormatPercent(e.CommissionRate), export.FormatSAR(e.CommissionAmount),
			paid, e.Event.ID.String()[:8])
	}
	w.Flush()
	return nil
}

// PayCommissionCommand marks an event's commission as paid out
func PayCommissionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("pay-commission", flag.ExitOnError)
	undo := fs.Bool("undo", false, "Mark the commission unpaid again")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	paid := !*undo
	if _, err := db.UpdateEvent(database, event.ID, models.EventPatch{CommissionPaid: &paid}); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	if paid {
		fmt.Printf("✓ Commission for %s marked paid\n", event.Name)
	} else {
		fmt.Printf("✓ Commission for %s marked unpaid\n", event.Name)
	}
	return nil
}

func loadUsersAndEvents(database *sql.DB) ([]models.User, []models.Event, error) {
	users, err := db.ListUsers(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	events, err := db.ListEvents(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events: %w", err)
	}
	return users, events, nil
}
