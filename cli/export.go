// ABOUTME: Quotation export CLI command
// ABOUTME: Writes an event's priced line items as a PDF quote
package cli

import (
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
)

// ExportQuoteCommand renders a quotation PDF for an event
func ExportQuoteCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: <quote number>.pdf)")
	_ = parseArgs(fs, args)

	if fs.NArg() < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}

	client, err := db.LinkedClient(database, *event)
	if err != nil {
		return fmt.Errorf("failed to load client: %w", err)
	}

	quote, err := export.NewQuote(*event, client, time.Now(), rand.Reader)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = quote.Number + ".pdf"
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := quote.WritePDF(f); err != nil {
		return fmt.Errorf("failed to write quote: %w", err)
	}

	fmt.Printf("✓ Quote %s written to %s (total %s SAR)\n", quote.Number, path, export.FormatAmount(quote.Total))
	return nil
}
