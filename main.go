// ABOUTME: Entry point for the eventdesk CLI, MCP server, TUI and web UI
// ABOUTME: Routes to subcommands based on arguments after loading config and logging
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/harperreed/eventdesk/assist"
	"github.com/harperreed/eventdesk/cli"
	"github.com/harperreed/eventdesk/config"
	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/logging"
	"github.com/harperreed/eventdesk/tui"
	"github.com/harperreed/eventdesk/web"
)

const version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/eventdesk/eventdesk.db)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but leave subcommand flags alone
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("eventdesk version %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logging.Init(cfg.LogLevel)
	cli.Version = version

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	log.Debug().Str("path", cfg.DBPath).Bool("env_file", cfg.EnvFileLoaded).Msg("database opened")

	if *initOnly {
		log.Info().Str("path", cfg.DBPath).Msg("database initialized")
		_ = database.Close()
		os.Exit(0)
	}

	err = run(ctx, cfg, database, args[0], args[1:])
	_ = database.Close()

	if errors.Is(err, errUsage) {
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, database *sql.DB, command string, args []string) error {
	sub, subArgs := "", []string(nil)
	if len(args) > 0 {
		sub, subArgs = args[0], args[1:]
	}

	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, database, newAssistant(cfg))

	case "tui":
		_, err := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err

	case "web":
		return runWeb(ctx, cfg, database, args)

	case "client":
		switch sub {
		case "add":
			return cli.AddClientCommand(database, subArgs)
		case "list":
			return cli.ListClientsCommand(database, subArgs)
		case "update":
			return cli.UpdateClientCommand(database, subArgs)
		case "delete":
			return cli.DeleteClientCommand(database, subArgs)
		}

	case "user":
		switch sub {
		case "add":
			return cli.AddUserCommand(database, subArgs)
		case "list":
			return cli.ListUsersCommand(database, subArgs)
		}

	case "event":
		switch sub {
		case "add":
			return cli.AddEventCommand(database, subArgs)
		case "list":
			return cli.ListEventsCommand(database, subArgs)
		case "show":
			return cli.ShowEventCommand(database, subArgs)
		case "update":
			return cli.UpdateEventCommand(database, subArgs)
		case "delete":
			return cli.DeleteEventCommand(database, subArgs)
		case "add-item":
			return cli.AddLineItemCommand(database, subArgs)
		case "remove-item":
			return cli.RemoveLineItemCommand(database, subArgs)
		case "add-task":
			return cli.AddTaskCommand(database, subArgs)
		case "done-task":
			return cli.CompleteTaskCommand(database, subArgs)
		case "financials":
			return cli.FinancialsCommand(database, subArgs)
		case "quote":
			return cli.ExportQuoteCommand(database, subArgs)
		}

	case "reconcile":
		switch sub {
		case "", "list":
			return cli.ReconcileCommand(database, subArgs)
		case "link":
			return cli.LinkCommand(database, subArgs)
		case "create-client":
			return cli.CreateClientCommand(database, subArgs)
		case "ignore":
			return cli.IgnoreCommand(database, subArgs)
		case "unignore":
			return cli.UnignoreCommand(database, subArgs)
		default:
			// Flags such as --confident go straight to the listing
			return cli.ReconcileCommand(database, args)
		}

	case "finance":
		switch sub {
		case "portfolio":
			return cli.PortfolioCommand(database, subArgs)
		case "commissions":
			return cli.CommissionsCommand(database, subArgs)
		case "ledger":
			return cli.LedgerCommand(database, subArgs)
		case "pay":
			return cli.PayCommissionCommand(database, subArgs)
		}

	case "assist":
		assistant := newAssistant(cfg)
		if !assistant.Enabled() {
			return fmt.Errorf("%w: set OPENAI_API_KEY", assist.ErrNoProvider)
		}
		switch sub {
		case "price":
			return cli.SuggestPriceCommand(ctx, database, assistant, subArgs)
		case "risk":
			return cli.RiskCommand(ctx, database, assistant, subArgs)
		case "extract":
			return cli.ExtractCommand(ctx, database, assistant, subArgs)
		}

	case "viz":
		switch sub {
		case "dashboard":
			return cli.DashboardCommand(database, subArgs)
		case "graph":
			return cli.GraphCommand(ctx, database, subArgs)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		return errUsage
	}

	if sub == "" {
		fmt.Printf("Error: %s requires a subcommand\n\n", command)
	} else {
		fmt.Printf("Unknown %s command: %s\n\n", command, sub)
	}
	return errUsage
}

func runWeb(ctx context.Context, cfg *config.Config, database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	defaultPort, err := strconv.Atoi(cfg.WebPort)
	if err != nil {
		return fmt.Errorf("invalid EVENTDESK_WEB_PORT %q: %w", cfg.WebPort, err)
	}
	port := fs.Int("port", defaultPort, "Port to listen on")
	_ = fs.Parse(args)

	server, err := web.NewServer(database)
	if err != nil {
		return err
	}
	return server.Start(ctx, *port)
}

// newAssistant returns an assistant backed by OpenAI, or a disabled one when
// no API key is configured.
func newAssistant(cfg *config.Config) *assist.Assistant {
	if !cfg.AssistEnabled() {
		return assist.New(nil)
	}
	return assist.New(assist.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel))
}

func printUsage() {
	fmt.Printf(`eventdesk v%s - event quotations, client reconciliation and commissions

USAGE:
  eventdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/eventdesk/eventdesk.db)
  --log-level <level>    debug, info, warn or error
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server on stdio
  tui                    Interactive terminal UI
  web [--port N]         Web UI (default port 8080)

  client add|list
  client update <client-id> [--name --contact --email --status --address --notes]
  client delete <client-id>
  user add|list
  event add|list|show|update|delete
  event add-item|remove-item|add-task|done-task
  event financials|quote <event-id>
  reconcile [--confident]
  reconcile link <event-id> [--client <client-id>]
  reconcile create-client|ignore <event-id>
  reconcile unignore <event-id>|--all
  finance portfolio|commissions|ledger
  finance pay <event-id> [--undo]
  assist price <event-id> <item-id> [--apply]
  assist risk <event-id>
  assist extract [--brief text] [--save <event-id>]
  viz dashboard|graph

Event and client IDs can be shortened to the prefix shown in listings.

ENVIRONMENT (.env is read if present):
  EVENTDESK_DB_PATH, EVENTDESK_LOG_LEVEL, EVENTDESK_WEB_PORT,
  OPENAI_API_KEY, OPENAI_MODEL
`, version)
}
