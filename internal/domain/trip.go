// Package domain contains the core data types for the trip planner.
// This package depends only on uuid and is imported by every other
// internal package (itinerary, catalog, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LatLng is a plain coordinate pair handed over by the mapping widget.
// The planner stores it and never interprets it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a place selection: free text, optionally pinned on the map.
type Location struct {
	Name        string  `json:"name"`
	Coordinates *LatLng `json:"coordinates,omitempty"`
}

// Trip is the top-level aggregate: a named date range with an origin,
// a destination and a day-by-day itinerary covering every date in the range.
type Trip struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CurrentLocation Location  `json:"current_location"`
	Destination     Location  `json:"destination"`
	Itinerary       Itinerary `json:"itinerary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TripDraft carries the fields collected by the planning wizard (or a direct
// create request) before the trip exists.
type TripDraft struct {
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	CurrentLocation Location
	Destination     Location
	// Itinerary is optional. When nil, a freshly seeded itinerary is used.
	Itinerary Itinerary
}

// TripPatch is a field-wise overwrite of a Trip. Nil fields are left as they are.
type TripPatch struct {
	Name            *string
	StartDate       *time.Time
	EndDate         *time.Time
	CurrentLocation *Location
	Destination     *Location
	Itinerary       *Itinerary
}

// IsEmpty reports whether the patch would change nothing.
func (p TripPatch) IsEmpty() bool {
	return p.Name == nil && p.StartDate == nil && p.EndDate == nil &&
		p.CurrentLocation == nil && p.Destination == nil && p.Itinerary == nil
}
