package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/persistence"
	"github.com/gcbaptista/go-catalog-search/model"
)

// gobListsData is the on-disk form of the lists.
type gobListsData struct {
	Lists []model.VehicleList
}

func newLists() map[model.ListKind]*model.VehicleList {
	return map[model.ListKind]*model.VehicleList{
		model.ListFavorites:  {Kind: model.ListFavorites, IDs: []string{}},
		model.ListComparison: {Kind: model.ListComparison, IDs: []string{}},
	}
}

// limitFor returns the maximum size of a list, 0 meaning unlimited.
func (s *Service) limitFor(kind model.ListKind) int {
	if kind == model.ListComparison {
		return s.settings.ComparisonLimit
	}
	return 0
}

func (s *Service) list(kind model.ListKind) (*model.VehicleList, error) {
	list, ok := s.lists[kind]
	if !ok {
		return nil, internalErrors.NewUnknownListError(string(kind))
	}
	return list, nil
}

// AddToList appends a vehicle to a list. Adding a vehicle already present is a no-op.
func (s *Service) AddToList(kind model.ListKind, vehicleID string) error {
	if _, err := s.Vehicle(vehicleID); err != nil {
		return err
	}

	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	list, err := s.list(kind)
	if err != nil {
		return err
	}
	if list.Contains(vehicleID) {
		return nil
	}
	if limit := s.limitFor(kind); limit > 0 && len(list.IDs) >= limit {
		return internalErrors.NewListFullError(string(kind), limit)
	}

	list.IDs = append(list.IDs, vehicleID)
	list.UpdatedAt = time.Now()
	s.logger.WithFields(logrus.Fields{"list": kind, "vehicle_id": vehicleID}).Debug("added to list")
	return s.saveListsLocked()
}

// RemoveFromList removes a vehicle from a list.
func (s *Service) RemoveFromList(kind model.ListKind, vehicleID string) error {
	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	list, err := s.list(kind)
	if err != nil {
		return err
	}

	for i, id := range list.IDs {
		if id == vehicleID {
			list.IDs = append(list.IDs[:i], list.IDs[i+1:]...)
			list.UpdatedAt = time.Now()
			return s.saveListsLocked()
		}
	}
	return internalErrors.NewVehicleNotFoundError(vehicleID)
}

// ClearList empties a list.
func (s *Service) ClearList(kind model.ListKind) error {
	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	list, err := s.list(kind)
	if err != nil {
		return err
	}
	list.IDs = []string{}
	list.UpdatedAt = time.Now()
	return s.saveListsLocked()
}

// List returns the vehicles of a list in insertion order.
func (s *Service) List(kind model.ListKind) ([]model.Vehicle, error) {
	s.listsMu.RLock()
	list, err := s.list(kind)
	var ids []string
	if err == nil {
		ids = append(ids, list.IDs...)
	}
	s.listsMu.RUnlock()
	if err != nil {
		return nil, err
	}

	vehicles := make([]model.Vehicle, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.store.Get(id); ok {
			vehicles = append(vehicles, v)
		}
	}
	return vehicles, nil
}

// Compare returns the comparison list's vehicles side by side.
func (s *Service) Compare() []model.Vehicle {
	vehicles, _ := s.List(model.ListComparison)
	return vehicles
}

// listSet returns the IDs of a list as a set.
func (s *Service) listSet(kind model.ListKind) map[string]struct{} {
	s.listsMu.RLock()
	defer s.listsMu.RUnlock()

	set := make(map[string]struct{})
	if list, ok := s.lists[kind]; ok {
		for _, id := range list.IDs {
			set[id] = struct{}{}
		}
	}
	return set
}

// pruneLists drops IDs that are no longer in the catalog.
func (s *Service) pruneLists() {
	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	changed := false
	for _, list := range s.lists {
		kept := list.IDs[:0]
		for _, id := range list.IDs {
			if _, ok := s.store.Get(id); ok {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(list.IDs) {
			s.logger.WithFields(logrus.Fields{
				"list":    list.Kind,
				"removed": len(list.IDs) - len(kept),
			}).Info("dropped vehicles missing from the new catalog")
			list.IDs = kept
			list.UpdatedAt = time.Now()
			changed = true
		}
	}

	if changed {
		if err := s.saveListsLocked(); err != nil {
			s.logger.WithError(err).Warn("failed to persist pruned lists")
		}
	}
}

// saveListsLocked persists the lists. Callers must hold listsMu.
func (s *Service) saveListsLocked() error {
	if s.dataDir == "" {
		return nil
	}

	data := gobListsData{}
	for _, kind := range []model.ListKind{model.ListFavorites, model.ListComparison} {
		list := s.lists[kind]
		data.Lists = append(data.Lists, model.VehicleList{
			Kind:      list.Kind,
			IDs:       append([]string(nil), list.IDs...),
			UpdatedAt: list.UpdatedAt,
		})
	}

	if err := persistence.SaveGob(filepath.Join(s.dataDir, listsFileName), data); err != nil {
		return fmt.Errorf("failed to persist lists: %w", err)
	}
	return nil
}

func (s *Service) loadLists() error {
	var data gobListsData
	err := persistence.LoadGob(filepath.Join(s.dataDir, listsFileName), &data)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	s.listsMu.Lock()
	defer s.listsMu.Unlock()
	for _, saved := range data.Lists {
		if _, ok := s.lists[saved.Kind]; !ok {
			s.logger.WithField("list", saved.Kind).Warn("ignoring unknown saved list")
			continue
		}
		ids := saved.IDs
		if ids == nil {
			ids = []string{}
		}
		s.lists[saved.Kind] = &model.VehicleList{Kind: saved.Kind, IDs: ids, UpdatedAt: saved.UpdatedAt}
	}
	return nil
}
