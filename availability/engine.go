// Package availability derives free check-in dates from a venue's existing bookings.
// Everything here is pure: no I/O, no logging, no shared state.
package availability

import (
	"errors"
	"sort"
)

const DefaultHorizonDays = 90

// BookedInterval is one existing reservation, both ends inclusive.
type BookedInterval struct {
	Start DateOnly `json:"start"`
	End   DateOnly `json:"end"`
}

// IntervalFromStrings normalizes a booking's dateFrom/dateTo (date or date-time strings)
// into a BookedInterval. It does not check ordering; ExpandInterval does.
func IntervalFromStrings(dateFrom, dateTo string) (BookedInterval, error) {
	start, err := ParseDateOnly(dateFrom)
	if err != nil {
		return BookedInterval{}, err
	}
	end, err := ParseDateOnly(dateTo)
	if err != nil {
		return BookedInterval{}, err
	}
	return BookedInterval{Start: start, End: end}, nil
}

// CheckoutPolicy decides whether a booking's last day blocks a new check-in.
type CheckoutPolicy int

const (
	// CheckoutBlocked blocks dateTo itself, matching how the venue API's bookings have
	// always been rendered.
	CheckoutBlocked CheckoutPolicy = iota
	// CheckoutTurnover leaves dateTo free so a new guest can check in on the day
	// the previous guest leaves.
	CheckoutTurnover
)

func (p CheckoutPolicy) String() string {
	if p == CheckoutTurnover {
		return "turnover"
	}
	return "blocked"
}

// ParseCheckoutPolicy maps "blocked" / "turnover" to a policy; anything else is blocked.
func ParseCheckoutPolicy(s string) CheckoutPolicy {
	if s == "turnover" {
		return CheckoutTurnover
	}
	return CheckoutBlocked
}

// DateSet is an unordered set of dates.
type DateSet map[DateOnly]struct{}

func NewDateSet(dates ...DateOnly) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Contains(d DateOnly) bool {
	_, ok := s[d]
	return ok
}

func (s DateSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s DateSet) Sorted() []DateOnly {
	out := make([]DateOnly, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// ExpandInterval enumerates every day from Start to End inclusive.
func ExpandInterval(interval BookedInterval) ([]DateOnly, error) {
	if interval.End.Before(interval.Start) {
		return nil, &InvalidIntervalError{Interval: interval}
	}
	days := make([]DateOnly, 0, interval.Start.DaysUntil(interval.End)+1)
	for d := interval.Start; !d.After(interval.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days, nil
}

// BuildTakenSet unions ExpandInterval over intervals using CheckoutBlocked.
// Malformed intervals are skipped; the returned error lists them (one
// *InvalidIntervalError each, joined) while the set covers every valid interval.
func BuildTakenSet(intervals []BookedInterval) (DateSet, error) {
	return BuildTakenSetWithPolicy(intervals, CheckoutBlocked)
}

func BuildTakenSetWithPolicy(intervals []BookedInterval, policy CheckoutPolicy) (DateSet, error) {
	taken := make(DateSet)
	var errs []error
	for _, interval := range intervals {
		days, err := ExpandInterval(interval)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if policy == CheckoutTurnover && len(days) > 1 {
			days = days[:len(days)-1]
		}
		for _, d := range days {
			taken[d] = struct{}{}
		}
	}
	return taken, errors.Join(errs...)
}

// ClipIntervals applies policy to each interval and intersects it with from..to, so the
// result can be expanded as CheckoutBlocked without touching days outside the window.
// Intervals that end before they start are reported like BuildTakenSet does; intervals
// that miss the window are dropped.
func ClipIntervals(intervals []BookedInterval, policy CheckoutPolicy, from, to DateOnly) ([]BookedInterval, error) {
	var clipped []BookedInterval
	var errs []error
	for _, interval := range intervals {
		if interval.End.Before(interval.Start) {
			errs = append(errs, &InvalidIntervalError{Interval: interval})
			continue
		}
		if policy == CheckoutTurnover && interval.End.After(interval.Start) {
			interval.End = interval.End.AddDays(-1)
		}
		if interval.Start.Before(from) {
			interval.Start = from
		}
		if interval.End.After(to) {
			interval.End = to
		}
		if interval.End.Before(interval.Start) {
			continue
		}
		clipped = append(clipped, interval)
	}
	return clipped, errors.Join(errs...)
}

// ComputeHorizon returns horizonDays+1 consecutive dates starting at today.
func ComputeHorizon(today DateOnly, horizonDays int) ([]DateOnly, error) {
	if horizonDays < 0 {
		return nil, &InvalidArgumentError{Name: "horizonDays", Value: horizonDays, Reason: "must not be negative"}
	}
	horizon := make([]DateOnly, horizonDays+1)
	for i := range horizon {
		horizon[i] = today.AddDays(i)
	}
	return horizon, nil
}

// ComputeAvailableCheckIns returns every d in horizon such that d..d+nights-1 all lie
// inside the horizon and none of them is taken. horizon must be ascending and
// contiguous, as produced by ComputeHorizon.
func ComputeAvailableCheckIns(horizon []DateOnly, taken DateSet, nights int) (DateSet, error) {
	if nights < 1 {
		return nil, &InvalidArgumentError{Name: "nights", Value: nights, Reason: "must be at least 1"}
	}
	available := make(DateSet)
	if nights > len(horizon) {
		return available, nil
	}

	// run counts consecutive free days ending at horizon[i].
	run := 0
	for i, d := range horizon {
		if taken.Contains(d) {
			run = 0
			continue
		}
		run++
		if run >= nights {
			available[horizon[i-nights+1]] = struct{}{}
		}
	}
	return available, nil
}

// Classification is how the calendar surface should render one day.
type Classification string

const (
	Available Classification = "available"
	Taken     Classification = "taken"
	Neutral   Classification = "neutral"
)

// ClassifyDate prefers Taken when d is somehow in both sets.
func ClassifyDate(d DateOnly, available, taken DateSet) Classification {
	isTaken := taken.Contains(d)
	isAvailable := available.Contains(d)
	switch {
	case isTaken:
		return Taken
	case isAvailable:
		return Available
	default:
		return Neutral
	}
}
