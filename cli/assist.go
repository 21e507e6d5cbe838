// ABOUTME: AI assistant CLI commands
// ABOUTME: Price suggestions, risk review and line item extraction from briefs
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/assist"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/models"
)

// SuggestPriceCommand asks the assistant to price a line item
func SuggestPriceCommand(ctx context.Context, database *sql.DB, assistant *assist.Assistant, args []string) error {
	fs := flag.NewFlagSet("price", flag.ExitOnError)
	apply := fs.Bool("apply", false, "Write the suggestion to the line item")
	_ = parseArgs(fs, args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: price <event-id> <line-item-id>")
	}
	event, err := resolveEvent(database, fs.Arg(0))
	if err != nil {
		return err
	}
	itemID, err := uuid.Parse(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("invalid line item ID: %w", err)
	}

	var item *models.LineItem
	for i := range event.CostTracker {
		if event.CostTracker[i].ID == itemID {
			item = &event.CostTracker[i]
		}
	}
	if item == nil {
		return fmt.Errorf("line item %s not found on %s", itemID, event.Name)
	}

	suggestion, err := assistant.SuggestPrice(ctx, *event, *item)
	if err != nil {
		return err
	}

	fmt.Printf("%s: cost %s, price %s\n", item.Name,
		export.FormatSAR(suggestion.UnitCostSAR), export.FormatSAR(suggestion.ClientPriceSAR))
	if suggestion.Rationale != "" {
		fmt.Printf("  %s\n", suggestion.Rationale)
	}

	if *apply {
		priced := assist.ApplyPrice(*item, *suggestion)
		if err := db.UpdateLineItem(database, &priced); err != nil {
			return fmt.Errorf("failed to update line item: %w", err)
		}
		fmt.Println("✓ Suggestion applied")
	}
	return nil
}

// RiskCommand asks the assistant to review an event's budget
func RiskCommand(ctx context.Context, database *sql.DB, assistant *assist.Assistant, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("event ID required")
	}
	event, err := resolveEvent(database, args[0])
	if err != nil {
		return err
	}

	report, err := assistant.AnalyzeRisk(ctx, finance.WithFinancials(*event))
	if err != nil {
		return err
	}

	fmt.Printf("Risk level: %s\n", report.Level)
	for _, risk := range report.Risks {
		fmt.Printf("  - %s\n", risk)
	}
	return nil
}

// ExtractCommand turns a free-text brief into line items. The brief is read
// from --brief or stdin.
func ExtractCommand(ctx context.Context, database *sql.DB, assistant *assist.Assistant, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	brief := fs.String("brief", "", "Event brief (default: read stdin)")
	save := fs.Bool("save", false, "Append the items to the event's cost tracker")
	_ = parseArgs(fs, args)

	text := *brief
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read brief: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("brief is empty")
	}

	var event *models.Event
	if *save {
		if fs.NArg() < 1 {
			return fmt.Errorf("event ID required with --save")
		}
		var err error
		if event, err = resolveEvent(database, fs.Arg(0)); err != nil {
			return err
		}
	}

	items, err := assistant.ExtractLineItems(ctx, text)
	if err != nil {
		return err
	}

	for i := range items {
		fmt.Printf("  %s x%g  cost %s  price %s\n", items[i].Name, items[i].Quantity,
			export.FormatSAR(items[i].UnitCostSAR), export.FormatSAR(items[i].ClientPriceSAR))
		if event != nil {
			if err := db.AddLineItem(database, event.ID, &items[i]); err != nil {
				return fmt.Errorf("failed to add line item: %w", err)
			}
		}
	}

	if event != nil {
		fmt.Printf("✓ Added %d item(s) to %s\n", len(items), event.Name)
	}
	return nil
}
