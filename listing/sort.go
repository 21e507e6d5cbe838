// ABOUTME: Sorting for event list views
// ABOUTME: Toggles direction on repeated keys and compares mixed-type values
package listing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/harperreed/eventdesk/finance"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort keys for event lists.
const (
	KeyName    = "name"
	KeyClient  = "client"
	KeyDate    = "date"
	KeyGuests  = "guests"
	KeyStatus  = "status"
	KeyPayment = "payment"
	KeyRevenue = "revenue"
	KeyCost    = "cost"
	KeyProfit  = "profit"
	KeyMargin  = "margin"
)

var EventSortKeys = []string{
	KeyName, KeyClient, KeyDate, KeyGuests, KeyStatus,
	KeyPayment, KeyRevenue, KeyCost, KeyProfit, KeyMargin,
}

// SortState is the key and direction a list is ordered by.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle selects key. Selecting the current key again flips the direction;
// a new key starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Direction == Asc {
			return SortState{Key: key, Direction: Desc}
		}
		return SortState{Key: key, Direction: Asc}
	}
	return SortState{Key: key, Direction: Asc}
}

func IsValidSortKey(key string) bool {
	return slices.Contains(EventSortKeys, key)
}

// Compare orders two values of the same kind. Strings compare
// case-insensitively, numbers and times directly. Mismatched kinds compare equal.
func Compare(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareNumbers(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return compareNumbers(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return 0
}

func compareNumbers[T int | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// EventValue returns the value of key for an event row.
func EventValue(e finance.EventFinancials, key string) (any, error) {
	switch key {
	case KeyName:
		return e.Name, nil
	case KeyClient:
		return e.ClientName, nil
	case KeyDate:
		return e.Date, nil
	case KeyGuests:
		return e.GuestCount, nil
	case KeyStatus:
		return e.Status, nil
	case KeyPayment:
		return e.PaymentStatus, nil
	case KeyRevenue:
		return e.Revenue, nil
	case KeyCost:
		return e.Cost, nil
	case KeyProfit:
		return e.Profit, nil
	case KeyMargin:
		return e.Margin, nil
	}
	return nil, fmt.Errorf("invalid sort key: %s (valid: %s)", key, strings.Join(EventSortKeys, ", "))
}

// SortEvents returns a sorted copy of events. Equal keys keep their input
// order; no secondary key is applied.
func SortEvents(events []finance.EventFinancials, state SortState) ([]finance.EventFinancials, error) {
	sorted := slices.Clone(events)
	if state.Key == "" {
		return sorted, nil
	}
	if !IsValidSortKey(state.Key) {
		_, err := EventValue(finance.EventFinancials{}, state.Key)
		return nil, err
	}

	slices.SortStableFunc(sorted, func(a, b finance.EventFinancials) int {
		av, _ := EventValue(a, state.Key)
		bv, _ := EventValue(b, state.Key)
		c := Compare(av, bv)
		if state.Direction == Desc {
			return -c
		}
		return c
	})

	return sorted, nil
}
