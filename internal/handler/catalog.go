package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/backend/internal/catalog"
	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ListingLink is the body of GET /catalog/listings/{token}.
type ListingLink struct {
	BusinessID string `json:"business_id"`
}

// SearchCatalog handles POST /catalog/{tab}/search.
// The body is the tab's FilterState; omitted fields keep their defaults, and
// an empty body searches with the default state.
func (s *Server) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	tab := domain.Tab(chi.URLParam(r, "tab"))

	state := catalog.DefaultFilterState()
	if err := decodeJSON(r, &state); err != nil && !errors.Is(err, errEmptyBody) {
		s.requestError(w, r, err.Error(), err)
		return
	}

	result, err := s.catalog.Search(r.Context(), tab, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetListingLink handles GET /catalog/listings/{token}.
// It resolves a detail-page token issued by a search back to its business ID.
func (s *Server) GetListingLink(w http.ResponseWriter, r *http.Request) {
	id, err := s.tokens.Decode(chi.URLParam(r, "token"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "listing not found"))
		return
	}
	writeJSON(w, http.StatusOK, ListingLink{BusinessID: id})
}
