// ABOUTME: Client reconciliation CLI commands
// ABOUTME: Lists unresolved events and links, creates or ignores their clients
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/rs/zerolog/log"
)

// ReconcileCommand lists events whose client name matches no known client
func ReconcileCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	confidentOnly := fs.Bool("confident", false, "Only show events with a confident suggestion")
	_ = parseArgs(fs, args)

	candidates, err := db.FindUnresolvedCandidates(database)
	if err != nil {
		return err
	}
	log.Debug().Int("candidates", len(candidates)).Msg("reconciliation pass")

	if len(candidates) == 0 {
		fmt.Println("✓ All events are linked to known clients")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tCLIENT NAME\tSUGGESTION\tSCORE\tID")
	fmt.Fprintln(w, "-----\t-----------\t----------\t-----\t--")
	shown := 0
	for _, c := range candidates {
		suggestion := "-"
		score := "-"
		if reconcile.Confident(c) {
			suggestion = c.SuggestedClient.CompanyName
			score = fmt.Sprintf("%.2f", c.Score)
		} else if *confidentOnly {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Event.Name, orDash(c.Event.ClientName), suggestion, score, c.Event.ID.String()[:8])
		shown++
	}
	w.Flush()

	fmt.Printf("\n%d unresolved event(s)\n", shown)
	return nil
}

// LinkCommand links an event to a client. Without --client the confident
// suggestion is used.
func LinkCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	clientRef := fs.String("client", "", "Client ID or prefix")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	clientID := ""
	if *clientRef != "" {
		client, err := resolveClient(database, *clientRef)
		if err != nil {
			return err
		}
		clientID = client.ID.String()
	} else {
		candidates, err := db.FindUnresolvedCandidates(database)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			if c.Event.ID == event.ID && reconcile.Confident(c) {
				clientID = c.SuggestedClient.ID.String()
			}
		}
	}
	if clientID == "" {
		return fmt.Errorf("%w: pass --client", reconcile.ErrNoSelection)
	}

	client, err := resolveClient(database, clientID)
	if err != nil {
		return err
	}
	updated, err := db.LinkEventToClient(database, event.ID, client.ID)
	if err != nil {
		return fmt.Errorf("failed to link event: %w", err)
	}

	fmt.Printf("✓ Linked %s to %s\n", updated.Name, client.CompanyName)
	return nil
}

// CreateClientCommand creates a client from an event's client name and contact
func CreateClientCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}

	client, _, err := db.CreateClientForEvent(database, event.ID)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	fmt.Printf("✓ Client created: %s (ID: %s)\n", client.CompanyName, client.ID)
	return nil
}

func IgnoreCommand(database *sql.DB, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}
	if err := db.IgnoreEvent(database, event.ID); err != nil {
		return fmt.Errorf("failed to ignore event: %w", err)
	}
	fmt.Printf("✓ %s will no longer appear in reconciliation\n", event.Name)
	return nil
}

func UnignoreCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("unignore", flag.ExitOnError)
	all := fs.Bool("all", false, "Clear every ignored event")
	_ = parseArgs(fs, args)

	if *all {
		if err := db.ClearIgnoredEvents(database); err != nil {
			return err
		}
		fmt.Println("✓ Ignore list cleared")
		return nil
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID or --all required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := db.UnignoreEvent(database, event.ID); err != nil {
		return err
	}
	fmt.Printf("✓ %s is back in reconciliation\n", event.Name)
	return nil
}
