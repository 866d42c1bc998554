package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// TripRepo backed by that transaction. The transaction is rolled back when
// the test finishes, giving free per-test isolation.
func newTestRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx)
}

// tripFixture returns a three-day trip with one scheduled item.
func tripFixture(t *testing.T) domain.Trip {
	t.Helper()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	days, err := itinerary.Expand(start, end)
	require.NoError(t, err)
	it, err := itinerary.AddItem(itinerary.Seed(days), days[1].Label,
		domain.ItineraryItem{Title: "Whale watching", Time: "08:00", IsBooked: true})
	require.NoError(t, err)

	return domain.Trip{
		Name:            "Summer Tour",
		StartDate:       start,
		EndDate:         end,
		CurrentLocation: domain.Location{Name: "Manila", Coordinates: &domain.LatLng{Lat: 14.6, Lng: 121}},
		Destination:     domain.Location{Name: "Cebu"},
		Itinerary:       it,
	}
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := tripFixture(t)
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Name, got.Name)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	assert.Equal(t, input.CurrentLocation, got.CurrentLocation)
	assert.Equal(t, input.Destination, got.Destination)
	assert.Equal(t, input.Itinerary.Labels(), got.Itinerary.Labels())
	assert.Equal(t, 1, got.Itinerary.ItemCount())
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	id := [16]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	_, err := r.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListPaged(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := tripFixture(t)
	first.Name = "First"
	second := tripFixture(t)
	second.Name = "Second"
	second.StartDate = second.StartDate.AddDate(0, 1, 0)
	second.EndDate = second.EndDate.AddDate(0, 1, 0)

	_, err := r.Create(ctx, first)
	require.NoError(t, err)
	_, err = r.Create(ctx, second)
	require.NoError(t, err)

	page, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 1})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(2))
	require.Len(t, page, 1)
	assert.Equal(t, "Second", page[0].Name, "most recent start date first")
}

func TestTripRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture(t))
	require.NoError(t, err)

	created.Name = "Renamed"
	created.Itinerary, err = itinerary.RemoveItem(created.Itinerary, created.Itinerary[1].Label, 0)
	require.NoError(t, err)

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 0, got.Itinerary.ItemCount())
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTestRepo(t)

	trip := tripFixture(t)
	trip.ID = [16]byte{0x01}

	_, err := r.Update(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	keep, err := r.Create(ctx, tripFixture(t))
	require.NoError(t, err)
	drop, err := r.Create(ctx, tripFixture(t))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, drop.ID))

	_, err = r.GetByID(ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	still, err := r.GetByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, keep.Itinerary.Labels(), still.Itinerary.Labels())

	assert.ErrorIs(t, r.Delete(ctx, drop.ID), domain.ErrNotFound)
}
