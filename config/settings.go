// Package config provides configuration structures for the catalog service.
// It defines catalog search settings and the server configuration.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/gcbaptista/go-catalog-search/model"
)

const (
	DefaultFuzzyThreshold  = 0.5
	DefaultPageSize        = 20
	DefaultMaxPageSize     = 100
	DefaultComparisonLimit = 4
)

// CatalogSettings contains the options that shape catalog search.
//
// SearchableFields order matters: field values are concatenated in this order
// before strict matching, so it also decides which texts count as contiguous.
type CatalogSettings struct {
	SearchableFields []string `json:"searchable_fields" yaml:"searchable_fields"` // Fields matched against the query (e.g., ["brand", "model"])
	FilterableFields []string `json:"filterable_fields" yaml:"filterable_fields"` // Fields the filter panel may narrow on
	FuzzyThreshold   float64  `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`     // Minimum average similarity for fuzzy matches, in [0, 1]
	DefaultPageSize  int      `json:"default_page_size" yaml:"default_page_size"` // Page size when a request does not set one
	MaxPageSize      int      `json:"max_page_size" yaml:"max_page_size"`         // Upper bound for requested page sizes
	ComparisonLimit  int      `json:"comparison_limit" yaml:"comparison_limit"`   // Maximum number of vehicles in the comparison list
}

// DefaultCatalogSettings returns the settings used when nothing is configured.
func DefaultCatalogSettings() CatalogSettings {
	settings := CatalogSettings{}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults fills zero values with defaults.
// A zero FuzzyThreshold is treated as unset; use a tiny positive value to accept almost anything.
func (settings *CatalogSettings) ApplyDefaults() {
	if len(settings.SearchableFields) == 0 {
		settings.SearchableFields = []string{model.FieldBrand, model.FieldModel}
	}
	if settings.FilterableFields == nil {
		settings.FilterableFields = []string{model.FieldClass, model.FieldBrand, model.FieldDrivetrain, model.FieldPrice, model.FieldSeats}
	}
	if settings.FuzzyThreshold == 0 {
		settings.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if settings.DefaultPageSize == 0 {
		settings.DefaultPageSize = DefaultPageSize
	}
	if settings.MaxPageSize == 0 {
		settings.MaxPageSize = DefaultMaxPageSize
	}
	if settings.DefaultPageSize > settings.MaxPageSize {
		settings.DefaultPageSize = settings.MaxPageSize
	}
	if settings.ComparisonLimit == 0 {
		settings.ComparisonLimit = DefaultComparisonLimit
	}
}

// Validate returns one message per problem found; an empty slice means the settings are usable.
func (settings *CatalogSettings) Validate() []string {
	var problems []string

	if len(settings.SearchableFields) == 0 {
		problems = append(problems, "searchable_fields must list at least one field")
	}
	problems = append(problems, checkFields("searchable_fields", settings.SearchableFields)...)
	problems = append(problems, checkFields("filterable_fields", settings.FilterableFields)...)

	if math.IsNaN(settings.FuzzyThreshold) || settings.FuzzyThreshold < 0 || settings.FuzzyThreshold > 1 {
		problems = append(problems, fmt.Sprintf("fuzzy_threshold %v must be between 0 and 1", settings.FuzzyThreshold))
	}
	if settings.DefaultPageSize < 1 {
		problems = append(problems, "default_page_size must be positive")
	}
	if settings.MaxPageSize < 1 {
		problems = append(problems, "max_page_size must be positive")
	}
	if settings.ComparisonLimit < 1 {
		problems = append(problems, "comparison_limit must be positive")
	}

	return problems
}

// IsSearchable reports whether field is one of the configured searchable fields.
func (settings *CatalogSettings) IsSearchable(field string) bool {
	return contains(settings.SearchableFields, field)
}

// IsFilterable reports whether field is one of the configured filterable fields.
func (settings *CatalogSettings) IsFilterable(field string) bool {
	return contains(settings.FilterableFields, field)
}

// checkFields reports empty, unknown and duplicate field names
func checkFields(setting string, fields []string) []string {
	var problems []string
	seen := make(map[string]bool)

	for _, field := range fields {
		switch {
		case strings.TrimSpace(field) == "":
			problems = append(problems, "Field name cannot be empty or whitespace-only in "+setting)
		case !model.IsKnownField(field):
			problems = append(problems, "Unknown field '"+field+"' in "+setting)
		case seen[field]:
			problems = append(problems, "Duplicate field '"+field+"' found in "+setting)
		}
		seen[field] = true
	}

	return problems
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
