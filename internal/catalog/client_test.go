package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/catalog"
)

const listingsJSON = `[
  {"business_id": "b-1", "businessName": "Harbor Tours", "businessLogo": "https://cdn/x.png",
   "category": ["Tours"], "amenities": ["Parking"], "rating": 4.5, "destination": "Cebu",
   "lowest_price": 500, "highest_price": 1500, "extra": true},
  {"business_id": 42, "businessName": "Market", "category": "Shop", "rating": null,
   "destination": "Cebu", "lowest_price": 0, "highest_price": 100}
]`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, url string) *catalog.Client {
	t.Helper()
	c, err := catalog.NewClient(catalog.ClientOptions{
		BaseURL:  url,
		RetryMax: 2,
		Timeout:  time.Second,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	return c
}

func TestClient_Listings(t *testing.T) {
	var gotPath, gotCategory string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCategory = r.URL.Query().Get("category")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, listingsJSON)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL+"/api/").Listings(context.Background(), "activities")

	require.NoError(t, err)
	assert.Equal(t, "/api/businesses", gotPath)
	assert.Equal(t, "activities", gotCategory)
	require.Len(t, got, 2)
	assert.Equal(t, "b-1", got[0].BusinessID)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.5, *got[0].Rating, 1e-9)
	assert.Equal(t, "42", got[1].BusinessID)
	assert.Equal(t, []string{"Shop"}, got[1].Category)
	assert.Nil(t, got[1].Rating)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"data": []}`)
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).Listings(context.Background(), "food")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Listings(context.Background(), "shop")

	assert.ErrorContains(t, err, "404")
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := catalog.NewClient(catalog.ClientOptions{BaseURL: "not a url"})

	assert.Error(t, err)
}

func TestParseListings_Invalid(t *testing.T) {
	_, err := catalog.ParseListings([]byte(`{"data": {"oops": 1}}`))
	assert.Error(t, err)

	_, err = catalog.ParseListings([]byte(`[{`))
	assert.Error(t, err)
}
