package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per itinerary item, with trip and
// day fields repeated for every item. Trips with no items yield one row with
// zero values for all day and item fields.
type ExportRow struct {
	// Trip fields, repeated for every item on the trip.
	TripID        string
	TripName      string
	TripStartDate string // "2006-01-02"
	TripEndDate   string // "2006-01-02"
	Origin        string
	Destination   string

	// Day and item fields, zero values when the trip has no items.
	Day          string
	DayLocation  string
	ItemPosition int // 1-based position within the day; 0 when absent
	ItemTitle    string
	ItemTime     string
	ItemBooked   bool
	ItemNotes    string
}
