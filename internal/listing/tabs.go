package listing

import "github.com/baanlist-dev/baanlist/internal/models"

// Tab is the project sub-page view state derived from the route.
type Tab string

const (
	TabAll  Tab = "all"
	TabRent Tab = "rent"
	TabBuy  Tab = "buy"
)

// ParseTab maps an optional route segment onto a tab. Only the exact
// segments "rent" and "buy" select a sub-view; everything else,
// including the absent segment, is the combined view.
func ParseTab(segment string) Tab {
	switch segment {
	case string(TabRent):
		return TabRent
	case string(TabBuy):
		return TabBuy
	default:
		return TabAll
	}
}

// FilterByTab narrows an already-fetched batch in memory. Tab switches
// are pure view-state changes and never refetch.
func FilterByTab(properties []models.Property, tab Tab) []models.Property {
	if tab == TabAll {
		return properties
	}

	filtered := make([]models.Property, 0, len(properties))

	for _, p := range properties {
		if p.Type == string(tab) {
			filtered = append(filtered, p)
		}
	}

	return filtered
}

// TabCounts tallies the fetched batch per tab in a single pass.
type TabCounts struct {
	All  int `json:"all"`
	Rent int `json:"rent"`
	Buy  int `json:"buy"`
}

func CountByTab(properties []models.Property) TabCounts {
	var counts TabCounts

	for _, p := range properties {
		counts.All++

		switch p.Type {
		case models.PropertyTypeRent:
			counts.Rent++
		case models.PropertyTypeBuy:
			counts.Buy++
		}
	}

	return counts
}
