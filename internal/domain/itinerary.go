package domain

import "time"

// DefaultNotes is shown in place of empty item notes.
const DefaultNotes = "No notes added"

// CalendarDay is one date of a trip together with its display label
// (e.g. "Tuesday, Oct 15"). The label is the key used to address a day.
type CalendarDay struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// ItineraryItem is one scheduled activity or booking within a day.
// Time is either empty (unscheduled) or "HH:MM" on a 24-hour clock.
type ItineraryItem struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	Time     string `json:"time,omitempty"`
	IsBooked bool   `json:"is_booked"`
	Notes    string `json:"notes"`
}

// DayPlan is a single itinerary bucket: the day, an optional location
// selection for it, and its items in display order.
type DayPlan struct {
	Date     time.Time       `json:"date"`
	Label    string          `json:"label"`
	Location *Location       `json:"location,omitempty"`
	Items    []ItineraryItem `json:"items"`
}

// Itinerary maps each day of a trip to its ordered items.
// Days are held in ascending date order and labels are unique, so the slice
// behaves as an ordered map keyed by label.
type Itinerary []DayPlan

// Index returns the position of the day with the given label, or -1.
func (it Itinerary) Index(label string) int {
	for i := range it {
		if it[i].Label == label {
			return i
		}
	}
	return -1
}

// Day returns the plan for label and whether it exists.
func (it Itinerary) Day(label string) (DayPlan, bool) {
	i := it.Index(label)
	if i < 0 {
		return DayPlan{}, false
	}
	return it[i], true
}

// Labels returns the day labels in date order.
func (it Itinerary) Labels() []string {
	out := make([]string, len(it))
	for i := range it {
		out[i] = it[i].Label
	}
	return out
}

// ItemCount returns the number of items across all days.
func (it Itinerary) ItemCount() int {
	n := 0
	for i := range it {
		n += len(it[i].Items)
	}
	return n
}
