package core

import (
	"fmt"
	"strings"
	"time"
)

// FilterKind selects orders by classification.
type FilterKind string

const (
	FilterAll        FilterKind = ""
	FilterUnfinished FilterKind = "unfinished"
	FilterCrossMonth FilterKind = "error"
)

// ParseFilterKind accepts the query values used by the order list.
func ParseFilterKind(s string) (FilterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "unfinished":
		return FilterUnfinished, nil
	case "error", "cross_month", "mismatch":
		return FilterCrossMonth, nil
	default:
		return FilterAll, fmt.Errorf("invalid filter %q: want unfinished or error", s)
	}
}

// Filter narrows an order list. Zero values match everything.
type Filter struct {
	Kind  FilterKind
	Plant string

	// StartFrom and StartTo bound BasicStartDate, inclusive. Orders whose
	// start date is missing or unparseable are excluded once either is set.
	StartFrom time.Time
	StartTo   time.Time
}

func (f Filter) matches(o AnalyzedOrder) bool {
	switch f.Kind {
	case FilterUnfinished:
		if !o.IsUnfinished {
			return false
		}
	case FilterCrossMonth:
		if !o.HasCrossMonthError {
			return false
		}
	}

	if f.Plant != "" && o.Plant != f.Plant {
		return false
	}

	if f.StartFrom.IsZero() && f.StartTo.IsZero() {
		return true
	}
	start, ok := ParseDate(o.BasicStartDate)
	if !ok {
		return false
	}
	if !f.StartFrom.IsZero() && start.Before(f.StartFrom) {
		return false
	}
	if !f.StartTo.IsZero() && start.After(f.StartTo) {
		return false
	}
	return true
}

// FilterOrders returns the orders matching f, preserving order.
func FilterOrders(orders []AnalyzedOrder, f Filter) []AnalyzedOrder {
	out := make([]AnalyzedOrder, 0, len(orders))
	for _, o := range orders {
		if f.matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Summary counts orders by verdict.
type Summary struct {
	Total      int `json:"total"`
	Normal     int `json:"normal"`
	Unfinished int `json:"unfinished"`
	CrossMonth int `json:"crossMonth"`
	Both       int `json:"both"`
	Movements  int `json:"movements"`
}

// Summarize tallies a classified order list. Unfinished and CrossMonth
// include orders that carry both flags.
func Summarize(orders []AnalyzedOrder) Summary {
	var s Summary
	for _, o := range orders {
		s.Total++
		s.Movements += len(o.MaterialLogs)
		switch o.State() {
		case StateNormal:
			s.Normal++
		case StateBoth:
			s.Both++
		}
		if o.IsUnfinished {
			s.Unfinished++
		}
		if o.HasCrossMonthError {
			s.CrossMonth++
		}
	}
	return s
}
