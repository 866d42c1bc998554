// Package planner holds the trip creation wizard and the confirmation gate
// placed in front of destructive trip operations.
//
// A Wizard is one session's draft. Every call is one discrete user action;
// nothing here touches the Trip collection until Submit.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
)

// Step is the wizard's position. The order of the constants is the order of
// the steps; Committed and Abandoned are terminal.
type Step int

const (
	StepIntro Step = iota
	StepDateRange
	StepItinerary
	StepReview
	StepCommitted
	StepAbandoned
)

var stepNames = map[Step]string{
	StepIntro:     "intro",
	StepDateRange: "date_range",
	StepItinerary: "itinerary",
	StepReview:    "review",
	StepCommitted: "committed",
	StepAbandoned: "abandoned",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText renders the step by name in JSON.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a step name produced by MarshalText.
func (s *Step) UnmarshalText(b []byte) error {
	for step, name := range stepNames {
		if name == string(b) {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("planner: unknown step %q", b)
}

// Terminal reports whether no further transition is possible.
func (s Step) Terminal() bool {
	return s == StepCommitted || s == StepAbandoned
}

// TripCreator persists a finished draft.
// *service.TripService satisfies this interface.
type TripCreator interface {
	Create(ctx context.Context, d domain.TripDraft) (domain.Trip, error)
}

// State is a read-only snapshot of a wizard.
type State struct {
	ID              uuid.UUID        `json:"id"`
	Step            Step             `json:"step"`
	Name            string           `json:"name"`
	CurrentLocation domain.Location  `json:"current_location"`
	Destination     domain.Location  `json:"destination"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	Itinerary       domain.Itinerary `json:"itinerary"`
	// TripID is set once the wizard is committed.
	TripID *uuid.UUID `json:"trip_id,omitempty"`
}

// Wizard is the single state object of one trip-creation session.
// It is not safe for concurrent use; Sessions serialises access.
type Wizard struct {
	id    uuid.UUID
	step  Step
	draft domain.TripDraft
	// seeded is the range the draft itinerary was last seeded for.
	seeded [2]time.Time
	trip   *domain.Trip
}

// NewWizard starts a wizard at the intro step.
func NewWizard(id uuid.UUID) *Wizard {
	return &Wizard{id: id, step: StepIntro}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// State returns a snapshot that does not alias the wizard's draft.
func (w *Wizard) State() State {
	st := State{
		ID:              w.id,
		Step:            w.step,
		Name:            w.draft.Name,
		CurrentLocation: w.draft.CurrentLocation,
		Destination:     w.draft.Destination,
		StartDate:       w.draft.StartDate,
		EndDate:         w.draft.EndDate,
		Itinerary:       cloneItinerary(w.draft.Itinerary),
	}
	if w.trip != nil {
		id := w.trip.ID
		st.TripID = &id
	}
	return st
}

// SetDetails records the trip name, origin and destination.
// Allowed only at the intro step.
func (w *Wizard) SetDetails(name string, origin, destination domain.Location) error {
	if err := w.require("SetDetails", StepIntro); err != nil {
		return err
	}
	w.draft.Name = name
	w.draft.CurrentLocation = origin
	w.draft.Destination = destination
	return nil
}

// SetDates records the trip range. Allowed only at the date-range step.
// An invalid range is rejected and the previous dates are kept.
func (w *Wizard) SetDates(start, end time.Time) error {
	if err := w.require("SetDates", StepDateRange); err != nil {
		return err
	}
	days, err := itinerary.Expand(start, end)
	if err != nil {
		return fmt.Errorf("planner.Wizard.SetDates: %w", err)
	}
	w.draft.StartDate = days[0].Date
	w.draft.EndDate = days[len(days)-1].Date
	return nil
}

// Next validates the current step and advances one step.
// Leaving the date-range step seeds the draft itinerary, unless it was
// already seeded for the same range.
func (w *Wizard) Next() error {
	switch w.step {
	case StepIntro:
		if strings.TrimSpace(w.draft.Name) == "" {
			return fmt.Errorf("planner.Wizard.Next: %w: name is required", domain.ErrValidation)
		}
	case StepDateRange:
		if w.draft.StartDate.IsZero() || w.draft.EndDate.IsZero() {
			return fmt.Errorf("planner.Wizard.Next: %w: start and end dates are required", domain.ErrValidation)
		}
		days, err := itinerary.Expand(w.draft.StartDate, w.draft.EndDate)
		if err != nil {
			return fmt.Errorf("planner.Wizard.Next: %w", err)
		}
		rng := [2]time.Time{w.draft.StartDate, w.draft.EndDate}
		if w.draft.Itinerary == nil || rng != w.seeded {
			w.draft.Itinerary = itinerary.Seed(days)
			w.seeded = rng
		}
	case StepItinerary:
	default:
		return w.invalid("Next")
	}
	w.step++
	return nil
}

// Back moves one step toward the intro step.
func (w *Wizard) Back() error {
	switch w.step {
	case StepDateRange, StepItinerary, StepReview:
		w.step--
		return nil
	default:
		return w.invalid("Back")
	}
}

// AddItem appends an item to a draft day. Allowed only at the itinerary step.
func (w *Wizard) AddItem(day string, item domain.ItineraryItem) error {
	return w.edit("AddItem", func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.AddItem(it, day, item)
	})
}

// UpdateItem replaces a draft item. Allowed only at the itinerary step.
func (w *Wizard) UpdateItem(day string, index int, item domain.ItineraryItem) error {
	return w.edit("UpdateItem", func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.UpdateItem(it, day, index, item)
	})
}

// RemoveItem deletes a draft item. Allowed only at the itinerary step.
func (w *Wizard) RemoveItem(day string, index int) error {
	return w.edit("RemoveItem", func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.RemoveItem(it, day, index)
	})
}

// SetLocation sets a draft day's location. Allowed only at the itinerary step.
func (w *Wizard) SetLocation(day string, loc *domain.Location) error {
	return w.edit("SetLocation", func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.SetLocation(it, day, loc)
	})
}

// Submit creates the trip from the draft and commits the wizard.
// If creation fails the wizard stays at the review step.
func (w *Wizard) Submit(ctx context.Context, trips TripCreator) (domain.Trip, error) {
	if err := w.require("Submit", StepReview); err != nil {
		return domain.Trip{}, err
	}
	d := w.draft
	d.Itinerary = cloneItinerary(w.draft.Itinerary)
	trip, err := trips.Create(ctx, d)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("planner.Wizard.Submit: %w", err)
	}
	w.trip = &trip
	w.step = StepCommitted
	return trip, nil
}

// Cancel abandons the wizard from any non-terminal step.
func (w *Wizard) Cancel() error {
	if w.step.Terminal() {
		return w.invalid("Cancel")
	}
	w.step = StepAbandoned
	return nil
}

func (w *Wizard) edit(op string, fn func(domain.Itinerary) (domain.Itinerary, error)) error {
	if err := w.require(op, StepItinerary); err != nil {
		return err
	}
	it, err := fn(w.draft.Itinerary)
	if err != nil {
		return fmt.Errorf("planner.Wizard.%s: %w", op, err)
	}
	w.draft.Itinerary = it
	return nil
}

func (w *Wizard) require(op string, step Step) error {
	if w.step != step {
		return w.invalid(op)
	}
	return nil
}

func (w *Wizard) invalid(op string) error {
	return fmt.Errorf("planner.Wizard.%s: %w: not allowed at step %s", op, domain.ErrInvalidTransition, w.step)
}

func cloneItinerary(it domain.Itinerary) domain.Itinerary {
	if it == nil {
		return nil
	}
	out := make(domain.Itinerary, len(it))
	for i, d := range it {
		d.Items = append([]domain.ItineraryItem{}, d.Items...)
		if d.Location != nil {
			loc := *d.Location
			d.Location = &loc
		}
		out[i] = d
	}
	return out
}
