package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/planner"
)

// Plan is the wire form of a trip-creation wizard.
type Plan struct {
	ID              uuid.UUID           `json:"id"`
	Step            planner.Step        `json:"step"`
	Name            string              `json:"name"`
	CurrentLocation domain.Location     `json:"current_location"`
	Destination     domain.Location     `json:"destination"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	Itinerary       []DayPlan           `json:"itinerary"`
	TripID          *uuid.UUID          `json:"trip_id,omitempty"`
}

// PlanDetailsRequest is the body of PUT /plans/{id}/details.
type PlanDetailsRequest struct {
	Name            string          `json:"name"`
	CurrentLocation domain.Location `json:"current_location"`
	Destination     domain.Location `json:"destination"`
}

// PlanDatesRequest is the body of PUT /plans/{id}/dates.
type PlanDatesRequest struct {
	StartDate *openapi_types.Date `json:"start_date"`
	EndDate   *openapi_types.Date `json:"end_date"`
}

// SubmitPlanResponse is the body of POST /plans/{id}/submit.
type SubmitPlanResponse struct {
	Plan Plan `json:"plan"`
	Trip Trip `json:"trip"`
}

// StartPlan handles POST /plans.
func (s *Server) StartPlan(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, planToResponse(s.plans.Start()))
}

// GetPlan handles GET /plans/{id}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	st, err := s.plans.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(st))
}

// SetPlanDetails handles PUT /plans/{id}/details.
func (s *Server) SetPlanDetails(w http.ResponseWriter, r *http.Request) {
	var body PlanDetailsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error {
		return wz.SetDetails(body.Name, body.CurrentLocation, body.Destination)
	})
}

// SetPlanDates handles PUT /plans/{id}/dates.
func (s *Server) SetPlanDates(w http.ResponseWriter, r *http.Request) {
	var body PlanDatesRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	if body.StartDate == nil || body.EndDate == nil {
		s.requestError(w, r, "start_date and end_date are required", nil)
		return
	}
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error {
		return wz.SetDates(body.StartDate.Time, body.EndDate.Time)
	})
}

// NextPlanStep handles POST /plans/{id}/next.
func (s *Server) NextPlanStep(w http.ResponseWriter, r *http.Request) {
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.Next() })
}

// PreviousPlanStep handles POST /plans/{id}/back.
func (s *Server) PreviousPlanStep(w http.ResponseWriter, r *http.Request) {
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.Back() })
}

// CancelPlan handles POST /plans/{id}/cancel.
func (s *Server) CancelPlan(w http.ResponseWriter, r *http.Request) {
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.Cancel() })
}

// SubmitPlan handles POST /plans/{id}/submit.
func (s *Server) SubmitPlan(w http.ResponseWriter, r *http.Request) {
	if s.trips == nil {
		s.writeError(w, r, errors.New("trip service not configured"))
		return
	}
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	var trip domain.Trip
	st, err := s.plans.Do(r.Context(), id, func(ctx context.Context, wz *planner.Wizard) error {
		var err error
		trip, err = wz.Submit(ctx, s.trips)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SubmitPlanResponse{Plan: planToResponse(st), Trip: tripToResponse(trip)})
}

// AddPlanItem handles POST /plans/{id}/days/{day}/items.
func (s *Server) AddPlanItem(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	var item domain.ItineraryItem
	if err := decodeJSON(r, &item); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.AddItem(day, item) })
}

// UpdatePlanItem handles PUT /plans/{id}/days/{day}/items/{index}.
func (s *Server) UpdatePlanItem(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
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
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.UpdateItem(day, index, item) })
}

// RemovePlanItem handles DELETE /plans/{id}/days/{day}/items/{index}.
// Draft items are not persisted yet, so no confirmation is asked for.
func (s *Server) RemovePlanItem(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	index, ok := s.parseIndex(w, r)
	if !ok {
		return
	}
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.RemoveItem(day, index) })
}

// SetPlanDayLocation handles PUT /plans/{id}/days/{day}/location.
func (s *Server) SetPlanDayLocation(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	var body LocationRequest
	if err := decodeJSON(r, &body); err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	s.onPlan(w, r, func(_ context.Context, wz *planner.Wizard) error { return wz.SetLocation(day, body.Location) })
}

// onPlan runs fn against the {id} wizard and writes its new state.
func (s *Server) onPlan(w http.ResponseWriter, r *http.Request, fn func(context.Context, *planner.Wizard) error) {
	id, err := idParam(r)
	if err != nil {
		s.requestError(w, r, err.Error(), err)
		return
	}
	st, err := s.plans.Do(r.Context(), id, fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(st))
}

func planToResponse(st planner.State) Plan {
	p := Plan{
		ID:              st.ID,
		Step:            st.Step,
		Name:            st.Name,
		CurrentLocation: st.CurrentLocation,
		Destination:     st.Destination,
		Itinerary:       itineraryToResponse(st.Itinerary),
		TripID:          st.TripID,
	}
	if !st.StartDate.IsZero() {
		p.StartDate = &openapi_types.Date{Time: st.StartDate}
	}
	if !st.EndDate.IsZero() {
		p.EndDate = &openapi_types.Date{Time: st.EndDate}
	}
	return p
}
