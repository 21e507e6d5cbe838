// ABOUTME: Resolution actions for unresolved client links
// ABOUTME: Produces patches and new clients for the state owner to apply
package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/eventdesk/models"
)

var (
	ErrEmptyClientName = errors.New("client name can't be empty")
	ErrNoSelection     = errors.New("a client must be selected")
)

// LinkToExisting returns the patch that points event at client. The client's
// primary contact is adopted when the event has no contact or the TBD placeholder.
func LinkToExisting(event models.Event, client *models.Client) (models.EventPatch, error) {
	if client == nil {
		return models.EventPatch{}, ErrNoSelection
	}

	name := client.CompanyName
	patch := models.EventPatch{ClientName: &name}

	contact := strings.TrimSpace(event.ClientContact)
	if contact == "" || contact == models.ContactTBD {
		primary := client.PrimaryContactName
		patch.ClientContact = &primary
	}

	return patch, nil
}

// CreateFromEvent builds a new client from an event's client details. The
// event needs no patch afterwards: its client name equals the new company name.
// ID and timestamps are assigned by the store.
func CreateFromEvent(event models.Event) (models.Client, error) {
	name := strings.TrimSpace(event.ClientName)
	if name == "" {
		return models.Client{}, ErrEmptyClientName
	}

	contact := strings.TrimSpace(event.ClientContact)
	if contact == models.ContactTBD {
		contact = ""
	}

	return models.Client{
		CompanyName:        name,
		PrimaryContactName: contact,
		ClientStatus:       models.ClientStatusActive,
		Address:            event.Location,
		InternalNotes:      fmt.Sprintf("Created from event %q", event.Name),
	}, nil
}

// IgnoreSet holds event IDs the user chose to skip during reconciliation.
type IgnoreSet map[uuid.UUID]struct{}

func NewIgnoreSet(ids ...uuid.UUID) IgnoreSet {
	set := make(IgnoreSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add marks id as ignored. A nil set must not be used with Add.
func (s IgnoreSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

// Has is safe on a nil set.
func (s IgnoreSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s IgnoreSet) Len() int {
	return len(s)
}

// IDs returns the ignored IDs sorted by their string form.
func (s IgnoreSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Ignore returns a copy of set with event added.
func Ignore(set IgnoreSet, event models.Event) IgnoreSet {
	next := make(IgnoreSet, len(set)+1)
	for id := range set {
		next[id] = struct{}{}
	}
	next[event.ID] = struct{}{}
	return next
}

// ScoredClient pairs a client with its match score.
type ScoredClient struct {
	Client models.Client `json:"client"`
	Score  float64       `json:"score"`
}

// Suggestions ranks clients against target for manual search, highest score
// first. Zero scores are dropped and equal scores keep client order.
func Suggestions(target string, clients []models.Client, limit int) []ScoredClient {
	var scored []ScoredClient
	for _, client := range clients {
		score := ScoreMatch(target, client.CompanyName)
		if score > 0 {
			scored = append(scored, ScoredClient{Client: client, Score: score})
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredClient) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
