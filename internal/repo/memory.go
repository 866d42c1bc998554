package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// memTripRepo keeps the Trip collection in process memory. It is the
// transient session store used when no database is configured.
type memTripRepo struct {
	mu    sync.RWMutex
	trips map[uuid.UUID]domain.Trip
	now   func() time.Time
}

// NewMemoryTripRepo returns an empty in-memory TripRepo.
func NewMemoryTripRepo() TripRepo {
	return &memTripRepo{trips: make(map[uuid.UUID]domain.Trip), now: time.Now}
}

func (r *memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip.ID = uuid.New()
	trip.CreatedAt = r.now().UTC()
	trip.UpdatedAt = trip.CreatedAt
	r.trips[trip.ID] = cloneTrip(trip)
	return cloneTrip(trip), nil
}

func (r *memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return cloneTrip(t), nil
}

func (r *memTripRepo) List(_ context.Context) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *memTripRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()
	lo, hi := p.Window(len(all))
	return all[lo:hi], int64(len(all)), nil
}

func (r *memTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.trips[trip.ID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	trip.CreatedAt = prev.CreatedAt
	trip.UpdatedAt = r.now().UTC()
	r.trips[trip.ID] = cloneTrip(trip)
	return cloneTrip(trip), nil
}

func (r *memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[id]; !ok {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.trips, id)
	return nil
}

// sorted returns copies of all trips, start_date descending then created_at
// descending, matching the Postgres ordering. Callers hold r.mu.
func (r *memTripRepo) sorted() []domain.Trip {
	out := make([]domain.Trip, 0, len(r.trips))
	for _, t := range r.trips {
		out = append(out, cloneTrip(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// cloneTrip copies the itinerary down to the item slices so stored trips never
// alias caller-owned memory.
func cloneTrip(t domain.Trip) domain.Trip {
	if t.Itinerary != nil {
		it := make(domain.Itinerary, len(t.Itinerary))
		for i, d := range t.Itinerary {
			d.Items = append([]domain.ItineraryItem{}, d.Items...)
			if d.Location != nil {
				loc := *d.Location
				d.Location = &loc
			}
			it[i] = d
		}
		t.Itinerary = it
	}
	return t
}
