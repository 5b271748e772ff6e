package models

import (
	"fmt"
	"strings"
)

// BookingState is the persisted state of a booking. Transitions happen only
// out of StateWaiting; approved and rejected bookings are immutable.
type BookingState string

const (
	StateWaiting  BookingState = "waiting"
	StateApproved BookingState = "approved"
	StateRejected BookingState = "rejected"
	StateCanceled BookingState = "canceled"
)

// StateFilter classifies list queries. It is a separate closed set from
// BookingState: current/past/future/all are derived from {status, start, end}
// relative to "now" at query time and are never stored.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
	FilterApproved StateFilter = "APPROVED"
	FilterCanceled StateFilter = "CANCELED"
)

var stateFilters = map[string]StateFilter{
	"ALL":      FilterAll,
	"CURRENT":  FilterCurrent,
	"PAST":     FilterPast,
	"FUTURE":   FilterFuture,
	"WAITING":  FilterWaiting,
	"REJECTED": FilterRejected,
	"APPROVED": FilterApproved,
	"CANCELED": FilterCanceled,
}

// ParseStateFilter parses a filter case-insensitively. The error message
// carries the original casing, clients match on it.
func ParseStateFilter(raw string) (StateFilter, error) {
	if f, ok := stateFilters[strings.ToUpper(raw)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("Unknown state: %s", raw)
}

// StatusFor maps the status-backed filters to the persisted state they query.
func (f StateFilter) StatusFor() (BookingState, bool) {
	switch f {
	case FilterWaiting:
		return StateWaiting, true
	case FilterRejected:
		return StateRejected, true
	case FilterApproved:
		return StateApproved, true
	case FilterCanceled:
		return StateCanceled, true
	default:
		return "", false
	}
}
