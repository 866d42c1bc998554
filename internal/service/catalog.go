package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/catalog"
	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// TokenEncoder issues opaque detail-page tokens for business IDs.
type TokenEncoder interface {
	Encode(id string) (string, error)
}

// ListingResult is a listing plus its detail-page token.
type ListingResult struct {
	domain.Listing
	DetailToken string `json:"detail_token,omitempty"`
}

// SearchGroup holds the matching listings of one catalog category.
type SearchGroup struct {
	Category string          `json:"category"`
	Listings []ListingResult `json:"listings"`
}

// SearchResult is the outcome of filtering a tab.
// NoResults is set when every category group came back empty, so callers
// can show an explicit empty state.
type SearchResult struct {
	Tab       domain.Tab    `json:"tab"`
	Groups    []SearchGroup `json:"groups"`
	Total     int           `json:"total"`
	NoResults bool          `json:"no_results"`
}

// CatalogService filters remote catalog listings per tab.
type CatalogService struct {
	source catalog.Source
	tokens TokenEncoder
}

// NewCatalogService constructs a CatalogService. source may be nil when no
// catalog is configured; Search then returns domain.ErrUnavailable.
// tokens may be nil, in which case results carry no detail tokens.
func NewCatalogService(source catalog.Source, tokens TokenEncoder) *CatalogService {
	return &CatalogService{source: source, tokens: tokens}
}

// Search fetches every category of tab and filters each with state.
// Returns domain.ErrValidation for an unknown tab or an out-of-domain state.
func (s *CatalogService) Search(ctx context.Context, tab domain.Tab, state domain.FilterState) (SearchResult, error) {
	if !tab.Valid() {
		return SearchResult{}, fmt.Errorf("service.CatalogService.Search: %w: unknown tab %q", domain.ErrValidation, tab)
	}
	if err := catalog.Validate(state); err != nil {
		return SearchResult{}, fmt.Errorf("service.CatalogService.Search: %w", err)
	}
	if s.source == nil {
		return SearchResult{}, fmt.Errorf("service.CatalogService.Search: %w: catalog service is not configured", domain.ErrUnavailable)
	}

	result := SearchResult{Tab: tab, Groups: []SearchGroup{}}
	for _, category := range tab.Categories() {
		listings, err := s.source.Listings(ctx, category)
		if err != nil {
			return SearchResult{}, fmt.Errorf("service.CatalogService.Search: %s: %w", category, err)
		}
		matched := catalog.Filter(listings, state)

		group := SearchGroup{Category: category, Listings: make([]ListingResult, 0, len(matched))}
		for _, l := range matched {
			lr := ListingResult{Listing: l}
			if s.tokens != nil && l.BusinessID != "" {
				if lr.DetailToken, err = s.tokens.Encode(l.BusinessID); err != nil {
					return SearchResult{}, fmt.Errorf("service.CatalogService.Search: %w", err)
				}
			}
			group.Listings = append(group.Listings, lr)
		}
		result.Groups = append(result.Groups, group)
		result.Total += len(matched)
	}
	result.NoResults = result.Total == 0
	return result, nil
}
