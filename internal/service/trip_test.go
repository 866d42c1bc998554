package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/itinerary"
	"github.com/pkordes/trip-planner/backend/internal/repo"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context) ([]domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validDraft() domain.TripDraft {
	return domain.TripDraft{
		Name:            "Visayas Loop",
		StartDate:       time.Date(2023, 10, 30, 9, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2023, 11, 2, 18, 0, 0, 0, time.UTC),
		CurrentLocation: domain.Location{Name: "Manila"},
		Destination:     domain.Location{Name: "Cebu"},
	}
}

// storedTrip returns a persisted-looking trip built from validDraft, with
// one item on its second day.
func storedTrip(t *testing.T) domain.Trip {
	t.Helper()
	trip, err := service.NewTrip(validDraft())
	require.NoError(t, err)
	trip.ID = uuid.New()
	trip.Itinerary, err = itinerary.AddItem(trip.Itinerary, "Tuesday, Oct 31", domain.ItineraryItem{Title: "Kawasan Falls"})
	require.NoError(t, err)
	return trip
}

// storeRepo is a mock holding a single trip that records the last update.
func storeRepo(trip domain.Trip, updated *domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			*updated = t
			return t, nil
		},
	}
}

func echoRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_SeedsItinerary(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), validDraft())

	require.NoError(t, err)
	assert.Equal(t, "Visayas Loop", got.Name)
	assert.Equal(t, []string{"Monday, Oct 30", "Tuesday, Oct 31", "Wednesday, Nov 1", "Thursday, Nov 2"}, got.Itinerary.Labels())
	assert.Equal(t, 0, got.Itinerary.ItemCount())
	assert.Equal(t, time.Date(2023, 10, 30, 0, 0, 0, 0, time.UTC), got.StartDate, "dates are truncated to calendar days")
}

func TestTripService_Create_MissingName(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	d.Name = "   "

	_, err := svc.Create(context.Background(), d)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndBeforeStart(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	d.EndDate = d.StartDate.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), d)

	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestTripService_Create_SameDay(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	d.EndDate = d.StartDate

	got, err := svc.Create(context.Background(), d)

	require.NoError(t, err)
	assert.Len(t, got.Itinerary, 1)
}

func TestTripService_Create_ItineraryMustCoverRange(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	days, err := itinerary.Expand(d.StartDate, d.StartDate)
	require.NoError(t, err)
	d.Itinerary = itinerary.Seed(days)

	_, err = svc.Create(context.Background(), d)

	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestTripService_Create_SuppliedItemsGetDefaultNotes(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	d.Itinerary = itinerary.Seed(mustExpand(t, d.StartDate, d.EndDate))
	d.Itinerary[2].Items = []domain.ItineraryItem{{Title: "Museum"}, {Title: "Market", Notes: "bring cash"}}

	got, err := svc.Create(context.Background(), d)

	require.NoError(t, err)
	items := got.Itinerary[2].Items
	require.Len(t, items, 2)
	assert.Equal(t, domain.DefaultNotes, items[0].Notes)
	assert.Equal(t, "bring cash", items[1].Notes)
	assert.Empty(t, d.Itinerary[2].Items[0].Notes, "the draft itself is left untouched")
}

func TestTripService_Create_SuppliedItemInvalid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	d := validDraft()
	d.Itinerary = itinerary.Seed(mustExpand(t, d.StartDate, d.EndDate))
	d.Itinerary[0].Items = []domain.ItineraryItem{{Title: "Dive", Time: "25:00"}}

	_, err := svc.Create(context.Background(), d)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) { return domain.Trip{}, repoErr },
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), validDraft())

	assert.ErrorIs(t, err, repoErr)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List_Empty(t *testing.T) {
	r := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(r)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTripService_ListPaged(t *testing.T) {
	var gotParams domain.PaginationParams
	r := &mockTripRepo{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
			gotParams = p
			return nil, 7, nil
		},
	}
	svc := service.NewTripService(r)

	trips, total, err := svc.ListPaged(context.Background(), domain.PaginationParams{Page: 2, Limit: 5})

	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Equal(t, int64(7), total)
	assert.Equal(t, 2, gotParams.Page)
}

// ---- Replace tests ---------------------------------------------------------

func TestTripService_Replace_PreservesItinerary(t *testing.T) {
	trip := storedTrip(t)
	var saved domain.Trip
	svc := service.NewTripService(storeRepo(trip, &saved))

	name := "Renamed"
	dest := domain.Location{Name: "Bohol"}
	got, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{Name: &name, Destination: &dest})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "Bohol", got.Destination.Name)
	assert.Equal(t, trip.CurrentLocation, got.CurrentLocation)
	assert.Equal(t, trip.Itinerary, got.Itinerary)
	assert.Equal(t, got, saved)
}

func TestTripService_Replace_DateChangeReconciles(t *testing.T) {
	trip := storedTrip(t)
	var saved domain.Trip
	svc := service.NewTripService(storeRepo(trip, &saved))

	start := time.Date(2023, 10, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 11, 4, 0, 0, 0, 0, time.UTC)
	got, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{StartDate: &start, EndDate: &end})

	require.NoError(t, err)
	assert.Len(t, got.Itinerary, 5)
	assert.Equal(t, "Tuesday, Oct 31", got.Itinerary[0].Label)
	assert.Equal(t, "Kawasan Falls", got.Itinerary[0].Items[0].Title)
}

func TestTripService_Replace_DateChangeWouldDropItems(t *testing.T) {
	trip := storedTrip(t)
	svc := service.NewTripService(storeRepo(trip, new(domain.Trip)))

	start := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{StartDate: &start})

	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestTripService_Replace_EndBeforeStart(t *testing.T) {
	trip := storedTrip(t)
	svc := service.NewTripService(storeRepo(trip, new(domain.Trip)))

	end := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{EndDate: &end})

	assert.ErrorIs(t, err, domain.ErrRange)
}

func TestTripService_Replace_WithItinerary(t *testing.T) {
	trip := storedTrip(t)
	svc := service.NewTripService(storeRepo(trip, new(domain.Trip)))

	fresh := itinerary.Seed(mustExpand(t, trip.StartDate, trip.EndDate))
	got, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{Itinerary: &fresh})

	require.NoError(t, err)
	assert.Equal(t, 0, got.Itinerary.ItemCount())
}

func TestTripService_Replace_SuppliedItemsGetDefaultNotes(t *testing.T) {
	trip := storedTrip(t)
	var saved domain.Trip
	svc := service.NewTripService(storeRepo(trip, &saved))

	fresh := itinerary.Seed(mustExpand(t, trip.StartDate, trip.EndDate))
	fresh[0].Items = []domain.ItineraryItem{{Title: "Magellan's Cross", Notes: "  "}}
	_, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{Itinerary: &fresh})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNotes, saved.Itinerary[0].Items[0].Notes)
}

func TestTripService_Replace_EmptyPatch(t *testing.T) {
	trip := storedTrip(t)
	r := storeRepo(trip, new(domain.Trip))
	r.update = func(context.Context, domain.Trip) (domain.Trip, error) {
		t.Fatal("an empty patch must not be saved")
		return domain.Trip{}, nil
	}
	svc := service.NewTripService(r)

	_, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Replace_BlankName(t *testing.T) {
	trip := storedTrip(t)
	svc := service.NewTripService(storeRepo(trip, new(domain.Trip)))

	blank := " "
	_, err := svc.Replace(context.Background(), trip.ID, domain.TripPatch{Name: &blank})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Replace_NotFound(t *testing.T) {
	svc := service.NewTripService(storeRepo(storedTrip(t), new(domain.Trip)))

	_, err := svc.Replace(context.Background(), uuid.New(), domain.TripPatch{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_NotFound(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := service.NewTripService(r)

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Delete_LeavesOtherTripsUnchanged(t *testing.T) {
	r := repo.NewMemoryTripRepo()
	svc := service.NewTripService(r)
	ctx := context.Background()

	keep, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)
	keep, err = svc.AddItem(ctx, keep.ID, "Monday, Oct 30", domain.ItineraryItem{Title: "Lechon lunch"})
	require.NoError(t, err)
	drop, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, drop.ID))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0])
}

// ---- Item tests ------------------------------------------------------------

func TestTripService_ItemLifecycle(t *testing.T) {
	svc := service.NewTripService(repo.NewMemoryTripRepo())
	ctx := context.Background()
	const day = "Wednesday, Nov 1"

	trip, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	for _, title := range []string{"Ferry", "Chocolate Hills", "Dinner"} {
		trip, err = svc.AddItem(ctx, trip.ID, day, domain.ItineraryItem{Title: title})
		require.NoError(t, err)
	}

	trip, err = svc.UpdateItem(ctx, trip.ID, day, 2, domain.ItineraryItem{Title: "Late dinner", Time: "21:00"})
	require.NoError(t, err)
	trip, err = svc.MoveItem(ctx, trip.ID, day, 2, 0)
	require.NoError(t, err)
	trip, err = svc.RemoveItem(ctx, trip.ID, day, 1)
	require.NoError(t, err)
	trip, err = svc.SetDayLocation(ctx, trip.ID, day, &domain.Location{Name: "Tagbilaran"})
	require.NoError(t, err)

	d, ok := trip.Itinerary.Day(day)
	require.True(t, ok)
	require.Len(t, d.Items, 2)
	assert.Equal(t, "Late dinner", d.Items[0].Title)
	assert.Equal(t, "Chocolate Hills", d.Items[1].Title)
	assert.Equal(t, "Tagbilaran", d.Location.Name)
}

func TestTripService_AddItem_UnknownDayLeavesTripUnchanged(t *testing.T) {
	trip := storedTrip(t)
	updated := false
	r := storeRepo(trip, new(domain.Trip))
	r.update = func(_ context.Context, t domain.Trip) (domain.Trip, error) {
		updated = true
		return t, nil
	}
	svc := service.NewTripService(r)

	_, err := svc.AddItem(context.Background(), trip.ID, "Friday, Dec 1", domain.ItineraryItem{Title: "x"})

	assert.ErrorIs(t, err, domain.ErrUnknownDay)
	assert.False(t, updated, "repo must not be written on failure")
}

func TestTripService_RemoveItem_StaleIndex(t *testing.T) {
	trip := storedTrip(t)
	svc := service.NewTripService(storeRepo(trip, new(domain.Trip)))

	_, err := svc.RemoveItem(context.Background(), trip.ID, "Tuesday, Oct 31", 3)

	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func mustExpand(t *testing.T, start, end time.Time) []domain.CalendarDay {
	t.Helper()
	days, err := itinerary.Expand(start, end)
	require.NoError(t, err)
	return days
}
