// Package catalog filters and fetches business listings from the remote
// catalog service. Filter and Validate are pure. Client and RedisCache are the
// Source implementations the server reads from; StaticSource serves tests.
package catalog

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// PriceCeiling is the top of the selectable price span.
const PriceCeiling = 1_000_000

// MaxRating is the highest star rating a listing can carry.
const MaxRating = 5

// DefaultFilterState returns the permissive state: every facet empty,
// every destination, the full price span.
func DefaultFilterState() domain.FilterState {
	return domain.FilterState{
		PriceRange:          [2]float64{0, PriceCeiling},
		SelectedDestination: domain.AllDestinations,
	}
}

// DefaultFilters returns an independent default FilterState for every tab.
func DefaultFilters() domain.Filters {
	f := make(domain.Filters, len(domain.Tabs))
	for _, tab := range domain.Tabs {
		f[tab] = DefaultFilterState()
	}
	return f
}

// For returns the state for tab, or the default when the tab has none.
// The returned value shares no slices with f.
func For(f domain.Filters, tab domain.Tab) domain.FilterState {
	s, ok := f[tab]
	if !ok {
		return DefaultFilterState()
	}
	return cloneState(s)
}

// Validate checks that a FilterState is inside its declared domains.
func Validate(s domain.FilterState) error {
	lo, hi := s.PriceRange[0], s.PriceRange[1]
	switch {
	case math.IsNaN(lo) || math.IsNaN(hi):
		return fmt.Errorf("%w: price range must be numeric", domain.ErrValidation)
	case lo < 0 || hi < 0:
		return fmt.Errorf("%w: price range must not be negative", domain.ErrValidation)
	case lo > hi:
		return fmt.Errorf("%w: price range minimum %.2f exceeds maximum %.2f", domain.ErrValidation, lo, hi)
	case hi > PriceCeiling:
		return fmt.Errorf("%w: price range maximum must not exceed %d", domain.ErrValidation, PriceCeiling)
	}
	for _, r := range s.SelectedRatings {
		if r < 0 || r > MaxRating {
			return fmt.Errorf("%w: rating %d must be between 0 and %d", domain.ErrValidation, r, MaxRating)
		}
	}
	if strings.TrimSpace(s.SelectedDestination) == "" {
		return fmt.Errorf("%w: destination is required (use %q for every destination)", domain.ErrValidation, domain.AllDestinations)
	}
	return nil
}

// Filter returns the listings that satisfy every active facet of s, in their
// original order. Within a multi-select facet a listing must carry every
// selected value, not just one of them.
//
// The input is never modified and no state is kept between calls.
func Filter(listings []domain.Listing, s domain.FilterState) []domain.Listing {
	m := newMatcher(s)
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if m.match(l) {
			out = append(out, l)
		}
	}
	return out
}

// matcher holds a FilterState with its selections already normalized.
type matcher struct {
	categories  []string // type, category and cuisine selections combined
	amenities   []string
	ratings     map[int]bool
	destination string
	min, max    float64
}

func newMatcher(s domain.FilterState) matcher {
	m := matcher{
		amenities:   normalizeAll(s.SelectedAmenities),
		destination: s.SelectedDestination,
		min:         s.PriceRange[0],
		max:         s.PriceRange[1],
	}
	m.categories = append(m.categories, normalizeAll(s.SelectedType)...)
	m.categories = append(m.categories, normalizeAll(s.SelectedCategory)...)
	m.categories = append(m.categories, normalizeAll(s.SelectedCuisine)...)
	if len(s.SelectedRatings) > 0 {
		m.ratings = make(map[int]bool, len(s.SelectedRatings))
		for _, r := range s.SelectedRatings {
			m.ratings[r] = true
		}
	}
	return m
}

func (m matcher) match(l domain.Listing) bool {
	if !containsAll(normalizeAll(l.Category), m.categories) {
		return false
	}
	if !containsAll(normalizeAll(l.Amenities), m.amenities) {
		return false
	}
	if m.ratings != nil {
		if l.Rating == nil || !m.ratings[int(math.Floor(*l.Rating))] {
			return false
		}
	}
	if m.destination != domain.AllDestinations && l.Destination != m.destination {
		return false
	}
	// Intervals overlap.
	return l.LowestPrice <= m.max && l.HighestPrice >= m.min
}

// containsAll reports whether every value in want appears in have.
// An empty want matches anything.
func containsAll(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Normalize folds case, trims surrounding space and drops one trailing "s",
// so "Museums", "museum " and "MUSEUM" compare equal.
func Normalize(v string) string {
	v = cases.Fold().String(strings.TrimSpace(v))
	return strings.TrimSuffix(v, "s")
}

func normalizeAll(vs []string) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = Normalize(v)
	}
	return out
}

func cloneState(s domain.FilterState) domain.FilterState {
	s.SelectedType = append([]string(nil), s.SelectedType...)
	s.SelectedAmenities = append([]string(nil), s.SelectedAmenities...)
	s.SelectedRatings = append([]int(nil), s.SelectedRatings...)
	s.SelectedCategory = append([]string(nil), s.SelectedCategory...)
	s.SelectedCuisine = append([]string(nil), s.SelectedCuisine...)
	return s
}
