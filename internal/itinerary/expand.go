// Package itinerary holds the date-range expander and the per-day item store.
// Every function here is a pure transformation: inputs are never mutated and
// failed operations leave no partial changes behind.
package itinerary

import (
	"fmt"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// LabelLayout formats a CalendarDay label, e.g. "Tuesday, Oct 15".
const LabelLayout = "Monday, Jan 2"

// MaxTripDays bounds the length of a trip. Labels carry no year, so a cap
// well under five years also keeps them unique within a trip.
const MaxTripDays = 366

// Civil truncates t to its calendar date at UTC midnight, keeping the
// year/month/day as seen in t's own location.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Label returns the display label for the calendar date of t.
func Label(t time.Time) string {
	return Civil(t).Format(LabelLayout)
}

// Expand returns every calendar day from start to end inclusive, in ascending
// order. Time of day is ignored. Days are advanced with AddDate on UTC civil
// dates, so month, year and DST boundaries never skip or repeat a day.
//
// Returns domain.ErrRange when end is before start or the span exceeds MaxTripDays.
func Expand(start, end time.Time) ([]domain.CalendarDay, error) {
	from, to := Civil(start), Civil(end)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s",
			domain.ErrRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	if n := DaysBetween(from, to) + 1; n > MaxTripDays {
		return nil, fmt.Errorf("%w: trip spans %d days, at most %d are supported", domain.ErrRange, n, MaxTripDays)
	}

	var days []domain.CalendarDay
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		days = append(days, domain.CalendarDay{Date: cur, Label: cur.Format(LabelLayout)})
	}
	return days, nil
}

// DaysBetween returns the number of whole calendar days from start to end.
// It is negative when end is before start.
func DaysBetween(start, end time.Time) int {
	// Both are UTC midnights, so the difference is an exact multiple of 24h.
	return int(Civil(end).Sub(Civil(start)).Hours() / 24)
}
