package catalog

import (
	"context"
	"sync"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Source supplies the listings of one business category.
// Implementations must treat returned slices as read-only once handed out.
type Source interface {
	Listings(ctx context.Context, category string) ([]domain.Listing, error)
}

// StaticSource is an in-memory Source keyed by category, for tests and
// embedders that already hold their listings. The API server leaves the
// source unset when no catalog service is configured, so searches answer
// domain.ErrUnavailable instead.
type StaticSource struct {
	mu       sync.RWMutex
	listings map[string][]domain.Listing
}

// NewStaticSource returns a StaticSource holding a copy of listings.
func NewStaticSource(listings map[string][]domain.Listing) *StaticSource {
	s := &StaticSource{listings: make(map[string][]domain.Listing, len(listings))}
	for category, ls := range listings {
		s.Put(category, ls)
	}
	return s
}

// Put replaces the listings for category.
func (s *StaticSource) Put(category string, ls []domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[category] = append([]domain.Listing(nil), ls...)
}

// Listings returns a copy of the listings for category. Unknown categories
// yield an empty slice.
func (s *StaticSource) Listings(_ context.Context, category string) ([]domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Listing{}, s.listings[category]...), nil
}
