package domain

// Listing is a business entry from the remote catalog service.
// It is read-only from the planner's perspective.
type Listing struct {
	BusinessID   string   `json:"business_id"`
	BusinessName string   `json:"businessName"`
	BusinessLogo string   `json:"businessLogo"`
	Category     []string `json:"category"`
	Amenities    []string `json:"amenities"`
	Rating       *float64 `json:"rating"`
	Destination  string   `json:"destination"`
	LowestPrice  float64  `json:"lowest_price"`
	HighestPrice float64  `json:"highest_price"`
}

// Tab identifies a catalog tab in the discovery screen.
type Tab string

const (
	TabAll            Tab = "all"
	TabActivities     Tab = "activities"
	TabAccommodations Tab = "accommodations"
	TabFood           Tab = "food"
	TabShop           Tab = "shop"
)

// Tabs lists every catalog tab in display order.
var Tabs = []Tab{TabAll, TabActivities, TabAccommodations, TabFood, TabShop}

// Categories returns the catalog categories shown under the tab.
// The "all" tab aggregates every other tab's category.
func (t Tab) Categories() []string {
	switch t {
	case TabAll:
		return []string{string(TabActivities), string(TabAccommodations), string(TabFood), string(TabShop)}
	case TabActivities, TabAccommodations, TabFood, TabShop:
		return []string{string(t)}
	default:
		return nil
	}
}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// AllDestinations is the destination sentinel that matches every listing.
const AllDestinations = "All"

// FilterState is the facet selection for one catalog tab.
// An empty selection set means "match everything" for that facet.
// Destination and PriceRange always apply.
type FilterState struct {
	PriceRange          [2]float64 `json:"priceRange"`
	SelectedType        []string   `json:"selectedType"`
	SelectedAmenities   []string   `json:"selectedAmenities"`
	SelectedRatings     []int      `json:"selectedRatings"`
	SelectedCategory    []string   `json:"selectedCategory"`
	SelectedCuisine     []string   `json:"selectedCuisine"`
	SelectedDestination string     `json:"selectedDestination"`
}

// Filters holds an independent FilterState per tab. Values are stored by
// value, so two tabs never share selection slices through the map.
type Filters map[Tab]FilterState
