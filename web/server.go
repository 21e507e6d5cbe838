// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the dashboard, event list, reconciliation and commission pages
package web

import (
	"context"
	"crypto/rand"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/harperreed/eventdesk/db"
	"github.com/harperreed/eventdesk/export"
	"github.com/harperreed/eventdesk/finance"
	"github.com/harperreed/eventdesk/listing"
	"github.com/harperreed/eventdesk/models"
	"github.com/harperreed/eventdesk/reconcile"
	"github.com/harperreed/eventdesk/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	db        *sql.DB
	templates *template.Template
	now       func() time.Time
}

func NewServer(database *sql.DB) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"sar":     export.FormatSAR,
		"percent": export.FormatPercent,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02")
		},
		"confident": reconcile.Confident,
		"negative": func(v float64) bool {
			return v < 0
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		db:        database,
		templates: tmpl,
		now:       time.Now,
	}, nil
}

// Handler returns the routes served by the UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/reconcile", s.handleReconcile)
	mux.HandleFunc("/commissions", s.handleCommissions)
	mux.HandleFunc("/quote", s.handleQuote)

	// Reconciliation actions
	mux.HandleFunc("/reconcile/link", s.handleLink)
	mux.HandleFunc("/reconcile/create", s.handleCreateClient)
	mux.HandleFunc("/reconcile/ignore", s.handleIgnore)

	// Partials for HTMX
	mux.HandleFunc("/partials/event-detail", s.handleEventDetail)
	mux.HandleFunc("/partials/graph", s.handleGraphPartial)
	return mux
}

// Start serves the UI until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", "http://localhost"+addr).Msg("starting web server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	// The data map includes ContentTemplate to specify which content block to render
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template error")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	users, err := db.ListUsers(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	clients, err := db.ListClients(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	events, err := db.ListEvents(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ignored, err := db.LoadIgnoreSet(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Stats":           viz.GenerateDashboardStats(users, clients, events, ignored, s.now()),
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// SortHeader is a sortable column heading on the events page.
type SortHeader struct {
	Title string
	URL   string
	Arrow string
}

var eventHeaders = []struct{ title, key string }{
	{"Name", listing.KeyName},
	{"Client", listing.KeyClient},
	{"Date", listing.KeyDate},
	{"Guests", listing.KeyGuests},
	{"Status", listing.KeyStatus},
	{"Payment", listing.KeyPayment},
	{"Revenue", listing.KeyRevenue},
	{"Cost", listing.KeyCost},
	{"Profit", listing.KeyProfit},
	{"Margin", listing.KeyMargin},
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := listing.EventFilter{
		Query:         q.Get("q"),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment"),
	}
	state := listing.SortState{Key: q.Get("sort"), Direction: listing.Asc}
	if state.Key == "" {
		state.Key = listing.KeyDate
	}
	if q.Get("dir") == string(listing.Desc) {
		state.Direction = listing.Desc
	}

	events, err := db.ListEvents(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows, err := listing.SortEvents(finance.WithFinancialsAll(filter.Apply(events)), state)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var headers []SortHeader
	for _, h := range eventHeaders {
		next := state.Toggle(h.key)
		params := url.Values{}
		for _, k := range []string{"q", "status", "payment"} {
			if v := q.Get(k); v != "" {
				params.Set(k, v)
			}
		}
		params.Set("sort", next.Key)
		params.Set("dir", string(next.Direction))

		header := SortHeader{Title: h.title, URL: "/events?" + params.Encode()}
		if h.key == state.Key {
			header.Arrow = "▲"
			if state.Direction == listing.Desc {
				header.Arrow = "▼"
			}
		}
		headers = append(headers, header)
	}

	data := map[string]any{
		"Events":          rows,
		"Totals":          finance.PortfolioTotals(filter.Apply(events)),
		"Headers":         headers,
		"Filter":          filter,
		"Statuses":        []string{models.EventStatusPlanning, models.EventStatusConfirmed, models.EventStatusCompleted, models.EventStatusCancelled},
		"Title":           "Events",
		"ContentTemplate": "events-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// CandidateView is an unresolved event with the clients offered for linking.
type CandidateView struct {
	Candidate models.MatchCandidate
	Options   []reconcile.ScoredClient
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	candidates, err := db.FindUnresolvedCandidates(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	clients, err := db.ListClients(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var views []CandidateView
	for _, c := range candidates {
		views = append(views, CandidateView{
			Candidate: c,
			Options:   reconcile.Suggestions(c.Event.ClientName, clients, 5),
		})
	}

	data := map[string]any{
		"Candidates":      views,
		"Clients":         clients,
		"Message":         r.URL.Query().Get("msg"),
		"Title":           "Reconcile",
		"ContentTemplate": "reconcile-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.postedEventID(w, r)
	if !ok {
		return
	}

	clientID, err := uuid.Parse(r.FormValue("client_id"))
	if err != nil {
		redirectReconcile(w, r, reconcile.ErrNoSelection.Error())
		return
	}

	event, err := db.LinkEventToClient(s.db, eventID, clientID)
	if err != nil {
		redirectReconcile(w, r, err.Error())
		return
	}
	redirectReconcile(w, r, fmt.Sprintf("Linked %s to %s", event.Name, event.ClientName))
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.postedEventID(w, r)
	if !ok {
		return
	}

	client, _, err := db.CreateClientForEvent(s.db, eventID)
	if err != nil {
		redirectReconcile(w, r, err.Error())
		return
	}
	redirectReconcile(w, r, "Created client "+client.CompanyName)
}

func (s *Server) handleIgnore(w http.ResponseWriter, r *http.Request) {
	eventID, ok := s.postedEventID(w, r)
	if !ok {
		return
	}

	if err := db.IgnoreEvent(s.db, eventID); err != nil {
		redirectReconcile(w, r, err.Error())
		return
	}
	redirectReconcile(w, r, "Event ignored")
}

func (s *Server) postedEventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.FormValue("event_id"))
	if err != nil {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func redirectReconcile(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/reconcile?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *Server) handleCommissions(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	events, err := db.ListEvents(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Summary":         finance.CommissionSummary(users, events),
		"Ledger":          finance.CommissionLedger(users, events),
		"Title":           "Commissions",
		"ContentTemplate": "commissions-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil, false
	}

	event, err := db.GetEvent(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if event == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return event, true
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	event, ok := s.loadEvent(w, r)
	if !ok {
		return
	}

	data := map[string]any{
		"Event": finance.WithFinancials(*event),
	}

	s.renderTemplate(w, "event-detail", data)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	event, ok := s.loadEvent(w, r)
	if !ok {
		return
	}

	client, err := db.LinkedClient(s.db, *event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	quote, err := export.NewQuote(*event, client, s.now(), rand.Reader)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, quote.Number))
	if err := quote.WritePDF(w); err != nil {
		log.Error().Err(err).Str("quote", quote.Number).Msg("failed to write quote")
	}
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	users, err := db.ListUsers(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	clients, err := db.ListClients(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	events, err := db.ListEvents(s.db)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dot, err := viz.GenerateEventGraph(r.Context(), users, clients, events)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"DOT": dot,
	}

	s.renderTemplate(w, "graph", data)
}
