package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Seed builds an itinerary with one empty bucket per day. Re-seeding is a
// full replacement: nothing from a previous itinerary carries over.
func Seed(days []domain.CalendarDay) domain.Itinerary {
	it := make(domain.Itinerary, len(days))
	for i, d := range days {
		it[i] = domain.DayPlan{Date: d.Date, Label: d.Label, Items: []domain.ItineraryItem{}}
	}
	return it
}

// AddItem appends item to the end of day's items.
func AddItem(it domain.Itinerary, day string, item domain.ItineraryItem) (domain.Itinerary, error) {
	i, err := locate(it, day)
	if err != nil {
		return it, err
	}
	item, err = ValidateItem(item)
	if err != nil {
		return it, err
	}

	items := make([]domain.ItineraryItem, 0, len(it[i].Items)+1)
	items = append(items, it[i].Items...)
	items = append(items, item)
	return withItems(it, i, items), nil
}

// UpdateItem replaces the item at index within day wholesale.
func UpdateItem(it domain.Itinerary, day string, index int, item domain.ItineraryItem) (domain.Itinerary, error) {
	i, err := locateItem(it, day, index)
	if err != nil {
		return it, err
	}
	item, err = ValidateItem(item)
	if err != nil {
		return it, err
	}

	items := cloneItems(it[i].Items)
	items[index] = item
	return withItems(it, i, items), nil
}

// RemoveItem deletes the item at index within day. Items after it shift down
// by one, so any index a caller is holding for a later item is now stale.
func RemoveItem(it domain.Itinerary, day string, index int) (domain.Itinerary, error) {
	i, err := locateItem(it, day, index)
	if err != nil {
		return it, err
	}

	old := it[i].Items
	items := make([]domain.ItineraryItem, 0, len(old)-1)
	items = append(items, old[:index]...)
	items = append(items, old[index+1:]...)
	return withItems(it, i, items), nil
}

// MoveItem moves the item at from to position to within the same day.
// Items between the two positions shift by one to make room.
func MoveItem(it domain.Itinerary, day string, from, to int) (domain.Itinerary, error) {
	i, err := locateItem(it, day, from)
	if err != nil {
		return it, err
	}
	if to < 0 || to >= len(it[i].Items) {
		return it, fmt.Errorf("%w: position %d on %q (day has %d items)", domain.ErrIndexOutOfRange, to, day, len(it[i].Items))
	}
	if from == to {
		return it, nil
	}

	old := it[i].Items
	moved := old[from]
	items := make([]domain.ItineraryItem, 0, len(old))
	items = append(items, old[:from]...)
	items = append(items, old[from+1:]...)
	items = append(items[:to], append([]domain.ItineraryItem{moved}, items[to:]...)...)
	return withItems(it, i, items), nil
}

// SetLocation records the destination selection for day. A nil loc clears it.
func SetLocation(it domain.Itinerary, day string, loc *domain.Location) (domain.Itinerary, error) {
	i, err := locate(it, day)
	if err != nil {
		return it, err
	}
	if loc != nil {
		if strings.TrimSpace(loc.Name) == "" && loc.Coordinates == nil {
			return it, fmt.Errorf("%w: location needs a name or coordinates", domain.ErrValidation)
		}
		cp := *loc
		loc = &cp
	}

	out := make(domain.Itinerary, len(it))
	copy(out, it)
	out[i].Location = loc
	return out, nil
}

// Reconcile rebuilds it for a new set of days. Days present in both keep
// their location and items, new days start empty, and days that fall away
// are dropped. Dropping a day that still has items is refused with
// domain.ErrRange so a date change never silently discards plans.
func Reconcile(it domain.Itinerary, days []domain.CalendarDay) (domain.Itinerary, error) {
	keep := make(map[string]bool, len(days))
	for _, d := range days {
		keep[d.Label] = true
	}
	for _, d := range it {
		if !keep[d.Label] && len(d.Items) > 0 {
			return it, fmt.Errorf("%w: %q has %d scheduled items outside the new dates", domain.ErrRange, d.Label, len(d.Items))
		}
	}

	out := Seed(days)
	for i := range out {
		if prev, ok := it.Day(out[i].Label); ok {
			out[i].Location = prev.Location
			out[i].Items = cloneItems(prev.Items)
		}
	}
	return out, nil
}

// Covers reports whether it has exactly the given days, in order.
func Covers(it domain.Itinerary, days []domain.CalendarDay) bool {
	if len(it) != len(days) {
		return false
	}
	for i := range days {
		if it[i].Label != days[i].Label {
			return false
		}
	}
	return true
}

// ValidateItem checks an item and fills in defaults.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Time must be empty or a 24-hour "HH:MM".
//   - Empty notes become domain.DefaultNotes.
func ValidateItem(item domain.ItineraryItem) (domain.ItineraryItem, error) {
	if strings.TrimSpace(item.Title) == "" {
		return item, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if item.Time != "" {
		if _, err := time.Parse("15:04", item.Time); err != nil || len(item.Time) != 5 {
			return item, fmt.Errorf("%w: time %q must be HH:MM", domain.ErrValidation, item.Time)
		}
	}
	if strings.TrimSpace(item.Notes) == "" {
		item.Notes = domain.DefaultNotes
	}
	return item, nil
}

func locate(it domain.Itinerary, day string) (int, error) {
	i := it.Index(day)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", domain.ErrUnknownDay, day)
	}
	return i, nil
}

func locateItem(it domain.Itinerary, day string, index int) (int, error) {
	i, err := locate(it, day)
	if err != nil {
		return -1, err
	}
	if index < 0 || index >= len(it[i].Items) {
		return -1, fmt.Errorf("%w: item %d on %q (day has %d items)", domain.ErrIndexOutOfRange, index, day, len(it[i].Items))
	}
	return i, nil
}

// withItems returns a shallow copy of it with day i's items replaced.
// Other days keep their original slices, which are never written to.
func withItems(it domain.Itinerary, i int, items []domain.ItineraryItem) domain.Itinerary {
	out := make(domain.Itinerary, len(it))
	copy(out, it)
	out[i].Items = items
	return out
}

func cloneItems(items []domain.ItineraryItem) []domain.ItineraryItem {
	out := make([]domain.ItineraryItem, len(items))
	copy(out, items)
	return out
}
