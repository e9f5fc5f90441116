package catalog

import (
	"cmp"
	"sort"
	"strings"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

// validateFilters rejects filters on fields that are not filterable
func (s *Service) validateFilters(filters *services.Filters) error {
	if filters == nil {
		return nil
	}

	used := make([]string, 0, 5)
	if len(filters.Classes) > 0 {
		used = append(used, model.FieldClass)
	}
	if len(filters.Brands) > 0 {
		used = append(used, model.FieldBrand)
	}
	if len(filters.Drivetrains) > 0 {
		used = append(used, model.FieldDrivetrain)
	}
	if filters.MinPrice != nil || filters.MaxPrice != nil {
		used = append(used, model.FieldPrice)
	}
	if filters.MinSeats != nil {
		used = append(used, model.FieldSeats)
	}

	for _, field := range used {
		if !s.settings.IsFilterable(field) {
			return internalErrors.NewValidationError("filters", "field '"+field+"' is not filterable")
		}
	}

	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		return internalErrors.NewValidationError("filters", "min_price cannot be greater than max_price")
	}
	return nil
}

// applyFilters keeps the hits whose vehicle passes every filter, preserving order
func (s *Service) applyFilters(hits []services.Hit, filters *services.Filters) []services.Hit {
	if filters == nil {
		return hits
	}

	var favorites map[string]struct{}
	if filters.FavoritesOnly {
		favorites = s.listSet(model.ListFavorites)
	}

	filtered := make([]services.Hit, 0, len(hits))
	for _, hit := range hits {
		if vehicleMatchesFilters(hit.Vehicle, filters, favorites) {
			filtered = append(filtered, hit)
		}
	}
	return filtered
}

// vehicleMatchesFilters checks one vehicle against the filter panel state
func vehicleMatchesFilters(v model.Vehicle, filters *services.Filters, favorites map[string]struct{}) bool {
	if !matchesAnyOf(v.Class, filters.Classes) {
		return false
	}
	if !matchesAnyOf(v.Brand, filters.Brands) {
		return false
	}
	if !matchesAnyOf(v.Drivetrain, filters.Drivetrains) {
		return false
	}
	if filters.MinPrice != nil && v.Price < *filters.MinPrice {
		return false
	}
	if filters.MaxPrice != nil && v.Price > *filters.MaxPrice {
		return false
	}
	if filters.MinSeats != nil && v.Seats < *filters.MinSeats {
		return false
	}
	if filters.FavoritesOnly {
		if _, ok := favorites[v.ID]; !ok {
			return false
		}
	}
	return true
}

// matchesAnyOf is a case-insensitive membership test; an empty set matches everything
func matchesAnyOf(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), value) {
			return true
		}
	}
	return false
}

// sortableFields maps a field name to a comparison of two vehicles on that field
var sortableFields = map[string]func(a, b model.Vehicle) int{
	model.FieldPrice: func(a, b model.Vehicle) int { return cmp.Compare(a.Price, b.Price) },
	model.FieldTopSpeedKmh: func(a, b model.Vehicle) int {
		return cmp.Compare(a.TopSpeedKmh, b.TopSpeedKmh)
	},
	model.FieldSeats: func(a, b model.Vehicle) int { return cmp.Compare(a.Seats, b.Seats) },
	model.FieldBrand: func(a, b model.Vehicle) int {
		return cmp.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
	},
	model.FieldModel: func(a, b model.Vehicle) int {
		return cmp.Compare(strings.ToLower(a.Model), strings.ToLower(b.Model))
	},
	model.FieldClass: func(a, b model.Vehicle) int {
		return cmp.Compare(strings.ToLower(a.Class), strings.ToLower(b.Class))
	},
}

// sortFunc resolves the requested ordering. A nil function means relevance order.
func sortFunc(sortBy, order string) (func(a, b model.Vehicle) bool, error) {
	if sortBy == "" {
		if order != "" {
			return nil, internalErrors.NewValidationError("sort_order", "sort_order requires sort_by")
		}
		return nil, nil
	}

	compare, ok := sortableFields[sortBy]
	if !ok {
		return nil, internalErrors.NewValidationError("sort_by", "cannot sort by '"+sortBy+"'")
	}

	switch order {
	case "", "asc":
		return func(a, b model.Vehicle) bool { return compare(a, b) < 0 }, nil
	case "desc":
		return func(a, b model.Vehicle) bool { return compare(a, b) > 0 }, nil
	default:
		return nil, internalErrors.NewValidationError("sort_order", "must be 'asc' or 'desc'")
	}
}

// sortHits orders hits by less; hits that compare equal keep their relevance order
func sortHits(hits []services.Hit, less func(a, b model.Vehicle) bool) {
	sort.SliceStable(hits, func(i, j int) bool {
		return less(hits[i].Vehicle, hits[j].Vehicle)
	})
}
