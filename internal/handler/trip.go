package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// DayPlan is the wire form of one itinerary day.
type DayPlan struct {
	Date     openapi_types.Date     `json:"date"`
	Label    string                 `json:"label"`
	Location *domain.Location       `json:"location,omitempty"`
	Items    []domain.ItineraryItem `json:"items"`
}

// Trip is the wire form of a trip.
type Trip struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	CurrentLocation domain.Location    `json:"current_location"`
	Destination     domain.Location    `json:"destination"`
	Itinerary       []DayPlan          `json:"itinerary"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Name            string              `json:"name"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	CurrentLocation domain.Location     `json:"current_location"`
	Destination     domain.Location     `json:"destination"`
	// Itinerary is optional; when absent or empty the trip starts with empty days.
	Itinerary []DayPlan `json:"itinerary,omitempty"`
}

// ReplaceTripRequest is the body of PATCH /trips/{id}. Absent fields keep
// their current value, and an empty itinerary counts as absent.
type ReplaceTripRequest struct {
	Name            *string             `json:"name,omitempty"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	CurrentLocation *domain.Location    `json:"current_location,omitempty"`
	Destination     *domain.Location    `json:"destination,omitempty"`
	Itinerary       *[]DayPlan          `json:"itinerary,omitempty"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	draft, err := requestToDraft(body)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}

	created, err := s.trips.Create(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// ReplaceTrip handles PATCH /trips/{id}?confirm=true.
func (s *Server) ReplaceTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	var body ReplaceTripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}

	updated, err := s.guard.ReplaceTrip(r.Context(), confirmation(r), id, requestToPatch(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}?confirm=true.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	if err := s.guard.DeleteTrip(r.Context(), confirmation(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToDraft converts a CreateTripRequest into a domain.TripDraft.
// Returns an error if required fields are missing.
func requestToDraft(body CreateTripRequest) (domain.TripDraft, error) {
	if body.StartDate == nil || body.EndDate == nil {
		return domain.TripDraft{}, errors.New("start_date and end_date are required")
	}
	d := domain.TripDraft{
		Name:            body.Name,
		StartDate:       body.StartDate.Time,
		EndDate:         body.EndDate.Time,
		CurrentLocation: body.CurrentLocation,
		Destination:     body.Destination,
	}
	if len(body.Itinerary) > 0 {
		d.Itinerary = requestToItinerary(body.Itinerary)
	}
	return d, nil
}

// requestToPatch converts a ReplaceTripRequest into a domain.TripPatch.
func requestToPatch(body ReplaceTripRequest) domain.TripPatch {
	p := domain.TripPatch{
		Name:            body.Name,
		CurrentLocation: body.CurrentLocation,
		Destination:     body.Destination,
	}
	if body.StartDate != nil {
		sd := body.StartDate.Time
		p.StartDate = &sd
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		p.EndDate = &ed
	}
	if body.Itinerary != nil && len(*body.Itinerary) > 0 {
		it := requestToItinerary(*body.Itinerary)
		p.Itinerary = &it
	}
	return p
}

func requestToItinerary(days []DayPlan) domain.Itinerary {
	it := make(domain.Itinerary, len(days))
	for i, d := range days {
		items := d.Items
		if items == nil {
			items = []domain.ItineraryItem{}
		}
		it[i] = domain.DayPlan{Date: d.Date.Time, Label: d.Label, Location: d.Location, Items: items}
	}
	return it
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:              t.ID,
		Name:            t.Name,
		StartDate:       openapi_types.Date{Time: t.StartDate},
		EndDate:         openapi_types.Date{Time: t.EndDate},
		CurrentLocation: t.CurrentLocation,
		Destination:     t.Destination,
		Itinerary:       itineraryToResponse(t.Itinerary),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func itineraryToResponse(it domain.Itinerary) []DayPlan {
	out := make([]DayPlan, len(it))
	for i, d := range it {
		items := d.Items
		if items == nil {
			items = []domain.ItineraryItem{}
		}
		out[i] = DayPlan{
			Date:     openapi_types.Date{Time: d.Date},
			Label:    d.Label,
			Location: d.Location,
			Items:    items,
		}
	}
	return out
}
