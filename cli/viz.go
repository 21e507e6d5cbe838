// ABOUTME: Visualization CLI commands
// ABOUTME: Handles dashboard and event graph generation commands
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/viz"
)

// DashboardCommand prints the text dashboard.
func DashboardCommand(database *sql.DB, args []string) error {
	stats, err := LoadDashboardStats(database, time.Now())
	if err != nil {
		return err
	}
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// GraphCommand renders salespeople, events and clients as a graph.
func GraphCommand(ctx context.Context, database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := parseArgs(fs, args); err != nil {
		return err
	}

	snap, err := db.LoadSnapshot(database)
	if err != nil {
		return err
	}

	dot, err := viz.GenerateEventGraph(ctx, snap.Users, snap.Clients, snap.Events)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

// LoadDashboardStats gathers everything the dashboard needs from the database.
func LoadDashboardStats(database *sql.DB, now time.Time) (*viz.DashboardStats, error) {
	snap, err := db.LoadSnapshot(database)
	if err != nil {
		return nil, err
	}
	return viz.GenerateDashboardStats(snap.Users, snap.Clients, snap.Events, snap.Ignored, now), nil
}
