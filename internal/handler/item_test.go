package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

const dayPath = "/days/Monday,%20Jun%202/items"

func TestAddItem_201_DecodesDayLabel(t *testing.T) {
	fixture := tripFixture()
	var gotDay string
	var gotItem domain.ItineraryItem
	svc := &mockTripServicer{
		addItem: func(_ context.Context, _ uuid.UUID, day string, item domain.ItineraryItem) (domain.Trip, error) {
			gotDay, gotItem = day, item
			return fixture, nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/"+fixture.ID.String()+dayPath, map[string]any{
		"title": "Strawberry farm", "time": "07:15", "is_booked": true,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Monday, Jun 2", gotDay)
	assert.Equal(t, domain.ItineraryItem{Title: "Strawberry farm", Time: "07:15", IsBooked: true}, gotItem)
}

func TestAddItem_EscapedComma(t *testing.T) {
	var gotDay string
	svc := &mockTripServicer{
		addItem: func(_ context.Context, _ uuid.UUID, day string, _ domain.ItineraryItem) (domain.Trip, error) {
			gotDay = day
			return tripFixture(), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/"+uuid.New().String()+"/days/Monday%2C%20Jun%202/items",
		map[string]any{"title": "x"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Monday, Jun 2", gotDay)
}

func TestAddItem_404_UnknownDay(t *testing.T) {
	svc := &mockTripServicer{
		addItem: func(_ context.Context, _ uuid.UUID, day string, _ domain.ItineraryItem) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.AddItem: %w: %q", domain.ErrUnknownDay, day)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/"+uuid.New().String()+dayPath, map[string]any{"title": "x"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "unknown_day", e.Code)
	assert.Equal(t, `"Monday, Jun 2"`, e.Message)
}

func TestUpdateItem_200(t *testing.T) {
	var gotIndex int
	svc := &mockTripServicer{
		updateItem: func(_ context.Context, _ uuid.UUID, _ string, index int, _ domain.ItineraryItem) (domain.Trip, error) {
			gotIndex = index
			return tripFixture(), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPut, "/trips/"+uuid.New().String()+dayPath+"/2", map[string]any{"title": "x"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotIndex)
}

func TestUpdateItem_422_BadIndex(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPut, "/trips/"+uuid.New().String()+dayPath+"/first", map[string]any{"title": "x"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRemoveItem_RequiresConfirmation(t *testing.T) {
	calls := 0
	svc := &mockTripServicer{
		removeItem: func(_ context.Context, _ uuid.UUID, _ string, _ int) (domain.Trip, error) {
			calls++
			return tripFixture(), nil
		},
	}
	h := newHTTPHandler(svc)
	target := "/trips/" + uuid.New().String() + dayPath + "/0"

	rec := do(t, h, http.MethodDelete, target, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Zero(t, calls)

	rec = do(t, h, http.MethodDelete, target+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestRemoveItem_404_StaleIndex(t *testing.T) {
	svc := &mockTripServicer{
		removeItem: func(context.Context, uuid.UUID, string, int) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.RemoveItem: %w: item 5", domain.ErrIndexOutOfRange)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodDelete, "/trips/"+uuid.New().String()+dayPath+"/5?confirm=1", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "index_out_of_range", decodeError(t, rec).Code)
}

func TestMoveItem_200(t *testing.T) {
	var gotFrom, gotTo int
	svc := &mockTripServicer{
		moveItem: func(_ context.Context, _ uuid.UUID, _ string, from, to int) (domain.Trip, error) {
			gotFrom, gotTo = from, to
			return tripFixture(), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/"+uuid.New().String()+dayPath+"/3/move", map[string]any{"to": 0})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotFrom)
	assert.Equal(t, 0, gotTo)
}

func TestMoveItem_422_MissingTo(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPost, "/trips/"+uuid.New().String()+dayPath+"/3/move", map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetDayLocation(t *testing.T) {
	var got *domain.Location
	svc := &mockTripServicer{
		setDayLocation: func(_ context.Context, _ uuid.UUID, _ string, loc *domain.Location) (domain.Trip, error) {
			got = loc
			return tripFixture(), nil
		},
	}
	h := newHTTPHandler(svc)
	target := "/trips/" + uuid.New().String() + "/days/Monday,%20Jun%202/location"

	rec := do(t, h, http.MethodPut, target, map[string]any{"location": map[string]any{"name": "Sagada"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Sagada", got.Name)

	rec = do(t, h, http.MethodPut, target, map[string]any{"location": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
}
