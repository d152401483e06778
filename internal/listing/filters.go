package listing

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/baanlist-dev/baanlist/internal/models"
)

// TypeFilter restricts a listing query to one property type.
type TypeFilter string

const (
	TypeAll  TypeFilter = "all"
	TypeRent TypeFilter = "rent"
	TypeBuy  TypeFilter = "buy"
)

// ParseTypeFilter accepts the query-string form; empty means all.
func ParseTypeFilter(raw string) (TypeFilter, error) {
	switch raw {
	case "", string(TypeAll):
		return TypeAll, nil
	case string(TypeRent):
		return TypeRent, nil
	case string(TypeBuy):
		return TypeBuy, nil
	default:
		return "", fmt.Errorf("unknown type filter %q", raw)
	}
}

// BedroomFilter restricts a listing query by bedroom count. "3+" is a
// lower bound; the numeric values are exact matches.
type BedroomFilter string

const (
	BedroomsAll       BedroomFilter = "all"
	BedroomsStudio    BedroomFilter = "0"
	BedroomsOne       BedroomFilter = "1"
	BedroomsTwo       BedroomFilter = "2"
	BedroomsThreePlus BedroomFilter = "3+"
)

func ParseBedroomFilter(raw string) (BedroomFilter, error) {
	switch raw {
	case "", string(BedroomsAll):
		return BedroomsAll, nil
	case string(BedroomsStudio):
		return BedroomsStudio, nil
	case string(BedroomsOne):
		return BedroomsOne, nil
	case string(BedroomsTwo):
		return BedroomsTwo, nil
	case string(BedroomsThreePlus):
		return BedroomsThreePlus, nil
	default:
		return "", fmt.Errorf("unknown bedroom filter %q", raw)
	}
}

// SortKey is the compound sort selector: field plus direction.
type SortKey string

const (
	SortNewest    SortKey = "created_at_desc"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

func ParseSortKey(raw string) (SortKey, error) {
	switch raw {
	case "", string(SortNewest):
		return SortNewest, nil
	case string(SortPriceAsc):
		return SortPriceAsc, nil
	case string(SortPriceDesc):
		return SortPriceDesc, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", raw)
	}
}

// OrderClause splits the compound key at the trailing direction token.
func (s SortKey) OrderClause() string {
	switch s {
	case SortPriceAsc:
		return "price asc"
	case SortPriceDesc:
		return "price desc"
	default:
		return "created_at desc"
	}
}

// Filters is the complete filter state of a listing request.
type Filters struct {
	Type     TypeFilter
	Bedrooms BedroomFilter
	Sort     SortKey
}

// ParseFilters builds a Filters value from raw query parameters,
// rejecting any unknown value. Empty parameters take the defaults
// (all, all, newest first).
func ParseFilters(rawType, rawBedrooms, rawSort string) (Filters, error) {
	typeFilter, err := ParseTypeFilter(rawType)
	if err != nil {
		return Filters{}, err
	}

	bedroomFilter, err := ParseBedroomFilter(rawBedrooms)
	if err != nil {
		return Filters{}, err
	}

	sortKey, err := ParseSortKey(rawSort)
	if err != nil {
		return Filters{}, err
	}

	return Filters{Type: typeFilter, Bedrooms: bedroomFilter, Sort: sortKey}, nil
}

// Apply translates the filter state into query clauses on the
// properties table. Every branch of each enum is handled here; adding
// a filter value without extending this switch is a compile-time or
// immediate-test failure, not a silent no-op.
func (f Filters) Apply(query *gorm.DB) *gorm.DB {
	switch f.Type {
	case TypeRent:
		query = query.Where("type = ?", models.PropertyTypeRent)
	case TypeBuy:
		query = query.Where("type = ?", models.PropertyTypeBuy)
	case TypeAll:
	}

	switch f.Bedrooms {
	case BedroomsStudio:
		query = query.Where("bedrooms = ?", 0)
	case BedroomsOne:
		query = query.Where("bedrooms = ?", 1)
	case BedroomsTwo:
		query = query.Where("bedrooms = ?", 2)
	case BedroomsThreePlus:
		query = query.Where("bedrooms >= ?", 3)
	case BedroomsAll:
	}

	return query.Order(f.Sort.OrderClause())
}
