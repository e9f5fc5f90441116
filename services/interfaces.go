package services

import (
	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/model"
)

// Hit is a single vehicle in the search results together with how it matched.
type Hit struct {
	Vehicle model.Vehicle `json:"vehicle"`
	Score   float64       `json:"score"` // Strict scores are ~100-150, fuzzy scores are in [0, 1]; never compared across phases
	Phase   string        `json:"phase"` // "strict", "fuzzy", or "all" when the query was empty
}

type SearchResult struct {
	Hits     []Hit  `json:"hits"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Phase    string `json:"phase,omitempty"` // Phase the matcher answered with, even if filters dropped every hit; empty when nothing matched
	Took     int64  `json:"took"`     // milliseconds
	QueryId  string `json:"query_id"` // unique UUID for this search query
}

type SearchQuery struct {
	QueryString              string
	Filters                  *Filters
	SortBy                   string // Optional: vehicle field to order by instead of relevance
	SortOrder                string // "asc" (default) or "desc"
	Page                     int
	PageSize                 int
	RestrictSearchableFields []string // Optional: subset of searchable fields to search in
	Threshold                *float64 // Optional: override the configured fuzzy threshold
}

// Filters narrows search results after matching, like a filter panel would.
// Empty slices and nil bounds do not filter.
type Filters struct {
	Classes       []string `json:"classes,omitempty"`
	Brands        []string `json:"brands,omitempty"`
	Drivetrains   []string `json:"drivetrains,omitempty"`
	MinPrice      *int64   `json:"min_price,omitempty"`
	MaxPrice      *int64   `json:"max_price,omitempty"`
	MinSeats      *int     `json:"min_seats,omitempty"`
	FavoritesOnly bool     `json:"favorites_only,omitempty"`
}

// CatalogStats summarizes the loaded catalog.
type CatalogStats struct {
	Vehicles   int            `json:"vehicles"`
	ByClass    map[string]int `json:"by_class"`
	ByBrand    map[string]int `json:"by_brand"`
	Favorites  int            `json:"favorites"`
	Comparison int            `json:"comparison"`
}

// Searcher defines operations for querying the catalog
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// Browser exposes read access to catalog vehicles
type Browser interface {
	Vehicle(id string) (model.Vehicle, error)
	Vehicles() []model.Vehicle
	Stats() CatalogStats
	Settings() config.CatalogSettings
}

// ListManager manages the favorites and comparison lists
type ListManager interface {
	AddToList(kind model.ListKind, vehicleID string) error
	RemoveFromList(kind model.ListKind, vehicleID string) error
	ClearList(kind model.ListKind) error
	List(kind model.ListKind) ([]model.Vehicle, error)
	Compare() []model.Vehicle
}

// Catalog combines every operation the API needs
type Catalog interface {
	Searcher
	Browser
	ListManager
	Reload(vehicles []model.Vehicle) error
}
