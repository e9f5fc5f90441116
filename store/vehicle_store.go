package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
)

// VehicleStore keeps the catalog in feed order with an ID lookup table.
type VehicleStore struct {
	mu       sync.RWMutex
	vehicles []model.Vehicle
	byID     map[string]int // Vehicle ID to position in vehicles
}

// gobVehicleStoreData is a helper struct for Gob encoding/decoding VehicleStore data.
// It excludes the mutex and the derived lookup table.
type gobVehicleStoreData struct {
	Vehicles []model.Vehicle
}

// NewVehicleStore creates an empty store.
func NewVehicleStore() *VehicleStore {
	return &VehicleStore{byID: make(map[string]int)}
}

// Replace swaps the whole catalog. IDs must be non-empty and unique;
// on error the previous catalog is kept.
func (s *VehicleStore) Replace(vehicles []model.Vehicle) error {
	byID := make(map[string]int, len(vehicles))
	for i, v := range vehicles {
		if v.ID == "" {
			return internalErrors.NewValidationError(fmt.Sprintf("vehicles[%d].id", i), "vehicle ID is required")
		}
		if _, dup := byID[v.ID]; dup {
			return internalErrors.NewValidationError(fmt.Sprintf("vehicles[%d].id", i), "duplicate vehicle ID '"+v.ID+"'")
		}
		byID[v.ID] = i
	}

	copied := make([]model.Vehicle, len(vehicles))
	copy(copied, vehicles)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = copied
	s.byID = byID
	return nil
}

// All returns a snapshot of every vehicle in feed order.
func (s *VehicleStore) All() []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Vehicle, len(s.vehicles))
	copy(snapshot, s.vehicles)
	return snapshot
}

// Get looks a vehicle up by ID.
func (s *VehicleStore) Get(id string) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	if !ok {
		return model.Vehicle{}, false
	}
	return s.vehicles[pos], true
}

// Len returns the number of vehicles in the catalog.
func (s *VehicleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vehicles)
}

// GobEncode implements the gob.GobEncoder interface for VehicleStore.
func (s *VehicleStore) GobEncode() ([]byte, error) {
	data := gobVehicleStoreData{Vehicles: s.All()}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to gob encode vehicle store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for VehicleStore.
func (s *VehicleStore) GobDecode(data []byte) error {
	decoded := gobVehicleStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode vehicle store data: %w", err)
	}
	return s.Replace(decoded.Vehicles)
}
