// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen interface for events, reconciliation and commissions
package tui

import (
	"database/sql"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewPickClient
	ViewConfirmDelete
	ViewEdit
	ViewGraph
)

// Tab is the top-level section being shown
type Tab int

const (
	TabEvents Tab = iota
	TabReconcile
	TabCommissions
)

var tabNames = []string{"Events", "Reconcile", "Commissions"}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	viewMode ViewMode
	tab      Tab

	selectedRow int
	sort        listing.SortState

	events      []finance.EventFinancials
	clients     []models.Client
	candidates  []models.MatchCandidate
	commissions []finance.SalesCommission
	ledger      []finance.LedgerEntry

	// Client picker state
	picker  textinput.Model
	pickRow int

	// Edit form state
	formInputs []textinput.Model
	focusIndex int

	graphDOT string

	message string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model and loads its data
func NewModel(db *sql.DB) Model {
	picker := textinput.New()
	picker.Placeholder = "client name"
	picker.CharLimit = 100

	m := Model{
		db:       db,
		viewMode: ViewList,
		tab:      TabEvents,
		sort:     listing.SortState{Key: listing.KeyDate, Direction: listing.Asc},
		picker:   picker,
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewPickClient:
		return m.renderPickerView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Text inputs consume letters, so only ctrl+c quits from them
	switch m.viewMode {
	case ViewPickClient:
		return m.handlePickerKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	}

	return m, nil
}

// refresh reloads everything from the database and reapplies the sort.
func (m *Model) refresh() {
	m.err = nil

	snap, err := db.LoadSnapshot(m.db)
	if err != nil {
		m.err = err
		return
	}
	events, clients, users := snap.Events, snap.Clients, snap.Users

	sorted, err := listing.SortEvents(finance.WithFinancialsAll(events), m.sort)
	if err != nil {
		m.err = err
		return
	}

	m.events = sorted
	m.clients = clients
	m.candidates = reconcile.FindUnresolved(events, clients, snap.Ignored)
	m.commissions = finance.CommissionSummary(users, events)
	m.ledger = finance.CommissionLedger(users, events)
	m.clampSelection()
}

func (m *Model) rowCount() int {
	switch m.tab {
	case TabEvents:
		return len(m.events)
	case TabReconcile:
		return len(m.candidates)
	case TabCommissions:
		return len(m.commissions)
	}
	return 0
}

// selectEvent moves the cursor to the event with id, if it is listed.
func (m *Model) selectEvent(id uuid.UUID) {
	for i := range m.events {
		if m.events[i].ID == id {
			m.selectedRow = i
			return
		}
	}
}

func (m *Model) clampSelection() {
	if n := m.rowCount(); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
