// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// Itinerary mutations are computed by the pure functions in package itinerary
// and then persisted whole; the last write wins.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// TripService implements business logic for the Trip collection.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates the draft, builds a trip whose itinerary covers every day
// of the range, and adds it to the collection. A draft without an itinerary
// gets a freshly seeded one.
func (s *TripService) Create(ctx context.Context, d domain.TripDraft) (domain.Trip, error) {
	trip, err := NewTrip(d)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip. Returns domain.ErrNotFound if absent.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPaged returns one page of trips and the total count.
// Always returns a non-nil slice.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Replace overwrites the trip's fields with those present in patch.
// The itinerary is kept unless the patch carries one. When the dates change
// and the patch has no itinerary, the kept itinerary is reconciled onto the
// new range.
func (s *TripService) Replace(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Replace: %w", err)
	}
	next, err := ApplyPatch(existing, patch)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Replace: %w", err)
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Replace: %w", err)
	}
	return updated, nil
}

// Delete removes exactly one trip. Returns domain.ErrNotFound if absent.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddItem appends item to day in the trip's itinerary.
func (s *TripService) AddItem(ctx context.Context, id uuid.UUID, day string, item domain.ItineraryItem) (domain.Trip, error) {
	return s.mutate(ctx, "AddItem", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.AddItem(it, day, item)
	})
}

// UpdateItem replaces the item at index on day.
func (s *TripService) UpdateItem(ctx context.Context, id uuid.UUID, day string, index int, item domain.ItineraryItem) (domain.Trip, error) {
	return s.mutate(ctx, "UpdateItem", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.UpdateItem(it, day, index, item)
	})
}

// RemoveItem deletes the item at index on day. Later items on that day move
// down one position.
func (s *TripService) RemoveItem(ctx context.Context, id uuid.UUID, day string, index int) (domain.Trip, error) {
	return s.mutate(ctx, "RemoveItem", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.RemoveItem(it, day, index)
	})
}

// MoveItem reorders an item within day.
func (s *TripService) MoveItem(ctx context.Context, id uuid.UUID, day string, from, to int) (domain.Trip, error) {
	return s.mutate(ctx, "MoveItem", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.MoveItem(it, day, from, to)
	})
}

// SetDayLocation records (or, with nil, clears) the location chosen for day.
func (s *TripService) SetDayLocation(ctx context.Context, id uuid.UUID, day string, loc *domain.Location) (domain.Trip, error) {
	return s.mutate(ctx, "SetDayLocation", id, func(it domain.Itinerary) (domain.Itinerary, error) {
		return itinerary.SetLocation(it, day, loc)
	})
}

// mutate loads the trip, applies fn to its itinerary and saves the result.
// A failing fn leaves the stored trip untouched.
func (s *TripService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(domain.Itinerary) (domain.Itinerary, error)) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	it, err := fn(trip.Itinerary)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	trip.Itinerary = it
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	return updated, nil
}

// NewTrip builds an unsaved Trip from a draft.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - The date range must expand (end not before start, bounded length).
//   - A supplied itinerary must cover exactly the range's days.
func NewTrip(d domain.TripDraft) (domain.Trip, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	days, err := itinerary.Expand(d.StartDate, d.EndDate)
	if err != nil {
		return domain.Trip{}, err
	}

	it := itinerary.Seed(days)
	if d.Itinerary != nil {
		if it, err = normalizeItinerary(d.Itinerary, days); err != nil {
			return domain.Trip{}, err
		}
	}

	return domain.Trip{
		Name:            name,
		StartDate:       days[0].Date,
		EndDate:         days[len(days)-1].Date,
		CurrentLocation: d.CurrentLocation,
		Destination:     d.Destination,
		Itinerary:       it,
	}, nil
}

// ApplyPatch returns existing overwritten field-wise by patch. It does not
// touch storage. Identity and timestamps are never patched, and a patch with
// no fields is rejected.
func ApplyPatch(existing domain.Trip, patch domain.TripPatch) (domain.Trip, error) {
	if patch.IsEmpty() {
		return existing, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	next := existing
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return existing, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		next.Name = name
	}
	if patch.CurrentLocation != nil {
		next.CurrentLocation = *patch.CurrentLocation
	}
	if patch.Destination != nil {
		next.Destination = *patch.Destination
	}
	if patch.StartDate != nil {
		next.StartDate = itinerary.Civil(*patch.StartDate)
	}
	if patch.EndDate != nil {
		next.EndDate = itinerary.Civil(*patch.EndDate)
	}

	datesChanged := !next.StartDate.Equal(existing.StartDate) || !next.EndDate.Equal(existing.EndDate)
	if !datesChanged && patch.Itinerary == nil {
		return next, nil
	}

	days, err := itinerary.Expand(next.StartDate, next.EndDate)
	if err != nil {
		return existing, err
	}
	if patch.Itinerary != nil {
		if next.Itinerary, err = normalizeItinerary(*patch.Itinerary, days); err != nil {
			return existing, err
		}
		return next, nil
	}
	next.Itinerary, err = itinerary.Reconcile(existing.Itinerary, days)
	if err != nil {
		return existing, err
	}
	return next, nil
}

// normalizeItinerary checks that it has exactly the given days and returns a
// copy with every item validated and defaulted and every date taken from days.
func normalizeItinerary(it domain.Itinerary, days []domain.CalendarDay) (domain.Itinerary, error) {
	if !itinerary.Covers(it, days) {
		return nil, fmt.Errorf("%w: itinerary must have exactly one entry per day from %s to %s",
			domain.ErrRange, days[0].Label, days[len(days)-1].Label)
	}
	out := make(domain.Itinerary, len(it))
	for i, d := range it {
		items := make([]domain.ItineraryItem, len(d.Items))
		for j, item := range d.Items {
			valid, err := itinerary.ValidateItem(item)
			if err != nil {
				return nil, fmt.Errorf("%s item %d: %w", d.Label, j, err)
			}
			items[j] = valid
		}
		if d.Location != nil {
			loc := *d.Location
			d.Location = &loc
		}
		d.Date = days[i].Date
		d.Items = items
		out[i] = d
	}
	return out, nil
}
