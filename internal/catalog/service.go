// Package catalog serves vehicle search, filtering and the user's vehicle lists.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-catalog-search/config"
	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/internal/matcher"
	"github.com/gcbaptista/go-catalog-search/internal/persistence"
	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
	"github.com/gcbaptista/go-catalog-search/store"
)

const (
	catalogFileName = "catalog.gob"
	listsFileName   = "lists.gob"
)

// Options configures optional collaborators of the Service.
type Options struct {
	// DataDir enables persistence of the catalog snapshot and the lists. Empty keeps everything in memory.
	DataDir string
	Logger  *logrus.Entry
}

// Service implements services.Catalog.
type Service struct {
	store    *store.VehicleStore
	settings config.CatalogSettings
	dataDir  string
	logger   *logrus.Entry

	listsMu sync.RWMutex
	lists   map[model.ListKind]*model.VehicleList
}

// NewService creates a catalog service. When a data dir is configured, the last
// catalog snapshot and the saved lists are restored from it.
func NewService(settings config.CatalogSettings, opts Options) (*Service, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, internalErrors.NewValidationError("settings", strings.Join(problems, "; "))
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.WithField("component", "catalog")
	}

	s := &Service{
		store:    store.NewVehicleStore(),
		settings: settings,
		dataDir:  opts.DataDir,
		logger:   logger,
		lists:    newLists(),
	}

	if s.dataDir != "" {
		if err := s.restore(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) restore() error {
	err := persistence.LoadGob(filepath.Join(s.dataDir, catalogFileName), s.store)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("no catalog snapshot found, starting empty")
	case err != nil:
		return fmt.Errorf("failed to restore catalog snapshot: %w", err)
	default:
		s.logger.WithField("vehicles", s.store.Len()).Info("restored catalog snapshot")
	}

	if err := s.loadLists(); err != nil {
		return fmt.Errorf("failed to restore lists: %w", err)
	}
	return nil
}

// Settings returns a copy of the catalog settings.
func (s *Service) Settings() config.CatalogSettings {
	return s.settings
}

// Reload replaces the catalog. List entries that point at vehicles no longer
// in the catalog are dropped.
func (s *Service) Reload(vehicles []model.Vehicle) error {
	if err := s.store.Replace(vehicles); err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}
	s.logger.WithField("vehicles", len(vehicles)).Info("catalog reloaded")

	s.pruneLists()

	if s.dataDir != "" {
		if err := persistence.SaveGob(filepath.Join(s.dataDir, catalogFileName), s.store); err != nil {
			return fmt.Errorf("failed to persist catalog snapshot: %w", err)
		}
	}
	return nil
}

// Vehicle returns one vehicle by ID.
func (s *Service) Vehicle(id string) (model.Vehicle, error) {
	v, ok := s.store.Get(id)
	if !ok {
		return model.Vehicle{}, internalErrors.NewVehicleNotFoundError(id)
	}
	return v, nil
}

// Vehicles returns every vehicle in feed order.
func (s *Service) Vehicles() []model.Vehicle {
	return s.store.All()
}

// Stats counts vehicles per class and brand.
func (s *Service) Stats() services.CatalogStats {
	vehicles := s.store.All()
	stats := services.CatalogStats{
		Vehicles: len(vehicles),
		ByClass:  make(map[string]int),
		ByBrand:  make(map[string]int),
	}
	for _, v := range vehicles {
		stats.ByClass[v.Class]++
		stats.ByBrand[v.Brand]++
	}

	s.listsMu.RLock()
	stats.Favorites = len(s.lists[model.ListFavorites].IDs)
	stats.Comparison = len(s.lists[model.ListComparison].IDs)
	s.listsMu.RUnlock()

	return stats
}

// Search runs the matcher over the catalog, then filters, sorts and paginates.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()

	fields, err := s.effectiveSearchableFields(query.RestrictSearchableFields)
	if err != nil {
		return services.SearchResult{}, err
	}

	threshold := s.settings.FuzzyThreshold
	if query.Threshold != nil {
		threshold = *query.Threshold
	}

	if err := s.validateFilters(query.Filters); err != nil {
		return services.SearchResult{}, err
	}
	less, err := sortFunc(query.SortBy, query.SortOrder)
	if err != nil {
		return services.SearchResult{}, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = s.settings.DefaultPageSize
	}
	if pageSize > s.settings.MaxPageSize {
		pageSize = s.settings.MaxPageSize
	}

	scored, err := matcher.MatchScored(s.store.All(), query.QueryString, model.VehicleFields(fields), threshold)
	if err != nil {
		return services.SearchResult{}, err
	}

	// The phase is decided by the matcher, before filters can drop every hit.
	phase := ""
	if len(scored) > 0 {
		phase = scored[0].Phase.String()
	} else if normalized, _ := tokenizer.NormalizeQuery(query.QueryString); normalized == "" {
		phase = matcher.PhaseAll.String()
	}

	hits := make([]services.Hit, 0, len(scored))
	for _, res := range scored {
		hits = append(hits, services.Hit{Vehicle: res.Record, Score: res.Score, Phase: res.Phase.String()})
	}

	hits = s.applyFilters(hits, query.Filters)
	if less != nil {
		sortHits(hits, less)
	}

	totalHits := len(hits)
	startIndex := (page - 1) * pageSize
	endIndex := startIndex + pageSize
	var paginatedHits []services.Hit
	if startIndex < totalHits {
		if endIndex > totalHits {
			endIndex = totalHits
		}
		paginatedHits = hits[startIndex:endIndex]
	} else {
		paginatedHits = []services.Hit{}
	}

	result := services.SearchResult{
		Hits:     paginatedHits,
		Total:    totalHits,
		Page:     page,
		PageSize: pageSize,
		Phase:    phase,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  uuid.New().String(),
	}

	s.logger.WithFields(logrus.Fields{
		"query_id": result.QueryId,
		"query":    query.QueryString,
		"phase":    phase,
		"total":    totalHits,
	}).Debug("search completed")

	return result, nil
}

// effectiveSearchableFields validates a field restriction against the configured searchable fields.
func (s *Service) effectiveSearchableFields(restrict []string) ([]string, error) {
	if len(restrict) == 0 {
		return s.settings.SearchableFields, nil
	}
	for _, field := range restrict {
		if !s.settings.IsSearchable(field) {
			return nil, internalErrors.NewValidationError("restrict_searchable_fields",
				fmt.Sprintf("field '%s' is not configured as searchable", field))
		}
	}
	return restrict, nil
}
