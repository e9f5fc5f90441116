package model

import (
	"time"
)

// ListKind names one of the user's vehicle lists
type ListKind string

const (
	ListFavorites  ListKind = "favorites"
	ListComparison ListKind = "comparison"
)

// ParseListKind validates a list name coming from a request path.
func ParseListKind(name string) (ListKind, bool) {
	switch ListKind(name) {
	case ListFavorites, ListComparison:
		return ListKind(name), true
	default:
		return "", false
	}
}

// VehicleList is an ordered set of vehicle IDs
type VehicleList struct {
	Kind      ListKind  `json:"kind"`
	IDs       []string  `json:"ids"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains reports whether id is already in the list
func (l *VehicleList) Contains(id string) bool {
	for _, existing := range l.IDs {
		if existing == id {
			return true
		}
	}
	return false
}
