package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// MoveItemRequest is the body of POST .../items/{index}/move.
type MoveItemRequest struct {
	To *int `json:"to"`
}

// LocationRequest is the body of PUT .../days/{day}/location.
// A null location clears the day's selection.
type LocationRequest struct {
	Location *domain.Location `json:"location"`
}

// dayTarget holds the path parameters shared by the itinerary routes.
type dayTarget struct {
	id  uuid.UUID
	day string
}

func (s *Server) parseDayTarget(w http.ResponseWriter, r *http.Request) (dayTarget, bool) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return dayTarget{}, false
	}
	day, err := dayParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return dayTarget{}, false
	}
	return dayTarget{id: id, day: day}, true
}

func (s *Server) parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := indexParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return 0, false
	}
	return index, true
}

// AddItem handles POST /trips/{id}/days/{day}/items.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseDayTarget(w, r)
	if !ok {
		return
	}
	var item domain.ItineraryItem
	if err := decodeJSON(r, &item); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	trip, err := s.trips.AddItem(r.Context(), t.id, t.day, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// UpdateItem handles PUT /trips/{id}/days/{day}/items/{index}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseDayTarget(w, r)
	if !ok {
		return
	}
	index, ok := s.parseIndex(w, r)
	if !ok {
		return
	}
	var item domain.ItineraryItem
	if err := decodeJSON(r, &item); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	trip, err := s.trips.UpdateItem(r.Context(), t.id, t.day, index, item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// RemoveItem handles DELETE /trips/{id}/days/{day}/items/{index}?confirm=true.
func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseDayTarget(w, r)
	if !ok {
		return
	}
	index, ok := s.parseIndex(w, r)
	if !ok {
		return
	}
	trip, err := s.guard.RemoveItem(r.Context(), confirmation(r), t.id, t.day, index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// MoveItem handles POST /trips/{id}/days/{day}/items/{index}/move.
func (s *Server) MoveItem(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseDayTarget(w, r)
	if !ok {
		return
	}
	from, ok := s.parseIndex(w, r)
	if !ok {
		return
	}
	var body MoveItemRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	if body.To == nil {
		s.requestError(w, r, "to is required", nil)
		return
	}
	trip, err := s.trips.MoveItem(r.Context(), t.id, t.day, from, *body.To)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// SetDayLocation handles PUT /trips/{id}/days/{day}/location.
func (s *Server) SetDayLocation(w http.ResponseWriter, r *http.Request) {
	t, ok := s.parseDayTarget(w, r)
	if !ok {
		return
	}
	var body LocationRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	trip, err := s.trips.SetDayLocation(r.Context(), t.id, t.day, body.Location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}
