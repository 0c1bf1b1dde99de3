// Package catalog implements the listing query engine: conjunctive
// filtering over a catalog of properties driven by a route-level operation
// and free-form query criteria, followed by a stable sort.
package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/avillagran/propiedadesplus/internal/property"
)

// Namespace holds the seed catalog inside the record store.
const Namespace = "catalogo"

// Sort keys accepted by Query. Anything else falls back to SortNewest.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortArea      = "area"
)

// Criteria is the optional filter set of a search request. Zero values
// impose no constraint; unknown enum values simply match nothing, which
// suits free-form query strings.
type Criteria struct {
	Type         string
	Location     string
	MinPrice     int64
	MaxPrice     int64
	MinBedrooms  int
	MinBathrooms int
}

// ParseCriteria builds a Criteria from query-string values, the way the
// search form submits them. Malformed numbers are ignored.
func ParseCriteria(values url.Values) Criteria {
	criteria := Criteria{
		Type:     values.Get("type"),
		Location: values.Get("location"),
	}
	if v, err := strconv.ParseInt(values.Get("minPrice"), 10, 64); err == nil {
		criteria.MinPrice = v
	}
	if v, err := strconv.ParseInt(values.Get("maxPrice"), 10, 64); err == nil {
		criteria.MaxPrice = v
	}
	if v, err := strconv.Atoi(values.Get("bedrooms")); err == nil {
		criteria.MinBedrooms = v
	}
	if v, err := strconv.Atoi(values.Get("bathrooms")); err == nil {
		criteria.MinBathrooms = v
	}

	return criteria
}

// normalizeLocation lowercases and maps "-" to space, so that a routed
// slug like "las-condes" matches "Las Condes, Santiago".
func normalizeLocation(location string) string {
	return strings.ToLower(strings.ReplaceAll(location, "-", " "))
}

func matches(p property.Property, operation string, criteria Criteria) bool {
	if operation != property.OperationTodas && p.Operation != operation {
		return false
	}
	if criteria.Type != "" && p.Type != criteria.Type {
		return false
	}
	if criteria.Location != "" &&
		!strings.Contains(normalizeLocation(p.Location), normalizeLocation(criteria.Location)) {
		return false
	}
	if criteria.MinPrice > 0 && p.Price < criteria.MinPrice {
		return false
	}
	if criteria.MaxPrice > 0 && p.Price > criteria.MaxPrice {
		return false
	}
	if criteria.MinBedrooms > 0 && p.Bedrooms < criteria.MinBedrooms {
		return false
	}
	if criteria.MinBathrooms > 0 && p.Bathrooms < criteria.MinBathrooms {
		return false
	}

	return true
}

// Query returns the catalog entries satisfying the operation filter and
// every supplied criterion, ordered by sortKey. The input catalog is never
// mutated; entries comparing equal keep their relative input order.
//
// "newest" orders by creation timestamp, newest first. Every stored
// listing carries CreatedAt, so no id-shape heuristics are needed.
func Query(catalog []property.Property, operation string, criteria Criteria, sortKey string) []property.Property {
	result := make([]property.Property, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, operation, criteria) {
			result = append(result, p)
		}
	}

	switch sortKey {
	case SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	case SortArea:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Area > result[j].Area
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}

	return result
}
