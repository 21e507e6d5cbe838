// ABOUTME: Client name reconciliation and fuzzy matching logic
// ABOUTME: Finds events whose free-text client name does not match a known client
package reconcile

import (
	"strings"
	"unicode"

	"github.com/harperreed/eventdesk/models"
)

// ConfidenceThreshold is the score a suggestion must exceed to be offered to the user.
const ConfidenceThreshold = 0.4

const (
	scoreExact     = 1.0
	scoreContains  = 0.8
	scoreTokenBase = 0.5
	scoreTokenSpan = 0.4
)

// Normalize trims and lowercases a name for exact comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsLinked reports whether the event's client name exactly matches a client.
func IsLinked(event models.Event, clients []models.Client) bool {
	return FindLinkedClient(event, clients) != nil
}

// FindLinkedClient returns the first client whose company name matches the
// event's client name after normalization, or nil.
func FindLinkedClient(event models.Event, clients []models.Client) *models.Client {
	target := Normalize(event.ClientName)
	for i := range clients {
		if Normalize(clients[i].CompanyName) == target {
			return &clients[i]
		}
	}
	return nil
}

// ScoreMatch scores how similar candidate is to target, from 0 to 1.
//
// Tokens for the overlap score are split on whitespace only, so punctuation
// stays attached ("al-noor" is one token).
func ScoreMatch(target, candidate string) float64 {
	if strings.TrimSpace(target) == "" {
		return 0
	}

	s1 := stripNonAlphanumeric(target)
	s2 := stripNonAlphanumeric(candidate)

	if s1 == s2 {
		return scoreExact
	}
	// A side that strips to nothing is a substring of the other
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return scoreContains
	}

	tokens1 := tokenSet(target)
	tokens2 := tokenSet(candidate)

	overlap := 0
	for token := range tokens1 {
		if _, ok := tokens2[token]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	largest := max(len(tokens1), len(tokens2))
	return scoreTokenBase + (float64(overlap)/float64(largest))*scoreTokenSpan
}

// FindUnresolved returns one candidate per event that is neither ignored nor
// linked to a client, in event order. Each candidate carries the best-scoring
// client; the first client wins a tie and a zero score yields no suggestion.
func FindUnresolved(events []models.Event, clients []models.Client, ignored IgnoreSet) []models.MatchCandidate {
	var candidates []models.MatchCandidate

	for _, event := range events {
		if ignored.Has(event.ID) {
			continue
		}
		if IsLinked(event, clients) {
			continue
		}

		candidate := models.MatchCandidate{Event: event}
		for i := range clients {
			score := ScoreMatch(event.ClientName, clients[i].CompanyName)
			if score > candidate.Score {
				client := clients[i]
				candidate.SuggestedClient = &client
				candidate.Score = score
			}
		}

		candidates = append(candidates, candidate)
	}

	return candidates
}

// Confident reports whether a candidate's suggestion should be offered.
func Confident(candidate models.MatchCandidate) bool {
	return candidate.SuggestedClient != nil && candidate.Score > ConfidenceThreshold
}

func stripNonAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(s)) {
		set[token] = struct{}{}
	}
	return set
}
