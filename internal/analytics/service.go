// Package analytics records catalog searches and summarizes them for a dashboard.
package analytics

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-catalog-search/internal/persistence"
	"github.com/gcbaptista/go-catalog-search/internal/tokenizer"
	"github.com/gcbaptista/go-catalog-search/model"
)

const (
	maxEventsToKeep = 10000 // Keep last 10k events for performance
	topSearches     = 5
)

// VehicleCounter reports the current catalog size.
type VehicleCounter interface {
	Vehicles() []model.Vehicle
}

// Options configures the analytics service.
type Options struct {
	// DataFile persists events across restarts. Empty keeps them in memory only.
	DataFile string
	Logger   *logrus.Entry
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex    sync.RWMutex
	events   []model.SearchEvent
	catalog  VehicleCounter
	dataFile string
	logger   *logrus.Entry
	now      func() time.Time

	saveMu  sync.Mutex
	pending sync.WaitGroup
}

type gobAnalyticsData struct {
	Events []model.SearchEvent
}

// NewService creates a new analytics service, restoring saved events when a data file is configured
func NewService(catalog VehicleCounter, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.WithField("component", "analytics")
	}

	service := &Service{
		events:   make([]model.SearchEvent, 0),
		catalog:  catalog,
		dataFile: opts.DataFile,
		logger:   logger,
		now:      time.Now,
	}

	if err := service.loadData(); err != nil {
		logger.WithError(err).Warn("failed to load analytics data")
	}

	return service
}

// TrackSearchEvent records a new search event. Persistence happens in the background.
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	s.mutex.Lock()
	event.Timestamp = s.now()
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	if s.dataFile == "" {
		return nil
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.saveData(); err != nil {
			s.logger.WithError(err).Warn("failed to save analytics data")
		}
	}()

	return nil
}

// Flush waits for background saves and writes the current events.
func (s *Service) Flush() error {
	s.pending.Wait()
	return s.saveData()
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24hEvents := filterEventsByTimeRange(s.events, yesterday, now)
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterEventsByTimeRange(s.events, lastWeek, now)

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(last24hEvents),
		SearchesChangePercent:    calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		ResponseTimeChange:       calculateResponseTimeChange(last24hEvents, prev24hEvents),
		SearchPerformance24h:     getHourlyPerformance(last24hEvents),
		PopularSearches:          getPopularSearches(lastWeekEvents, func(model.SearchEvent) bool { return true }),
		ZeroResultSearches:       getPopularSearches(lastWeekEvents, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		Phases:                   getPhaseStats(last24hEvents),
	}
	if textSearches := dashboard.Phases.Strict + dashboard.Phases.Fuzzy; textSearches > 0 {
		dashboard.FuzzyRate = float64(dashboard.Phases.Fuzzy) / float64(textSearches)
	}
	if s.catalog != nil {
		dashboard.CatalogVehicles = len(s.catalog.Vehicles())
	}

	return dashboard
}

// filterEventsByTimeRange returns events in (start, end]
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// calculateResponseTimeChange compares average response times, ignoring changes under 10%
func calculateResponseTimeChange(current, previous []model.SearchEvent) string {
	currentAvg := calculateAvgResponseTime(current)
	previousAvg := calculateAvgResponseTime(previous)

	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

// getHourlyPerformance buckets events by hour of day
func getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(hourlyData[hour]),
			AvgResponseTime: calculateAvgResponseTime(hourlyData[hour]),
		})
	}
	return performance
}

// getPopularSearches returns the most frequent normalized queries among the events that pass keep.
// Browse requests with no query text are not counted.
func getPopularSearches(events []model.SearchEvent, keep func(model.SearchEvent) bool) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if !keep(event) {
			continue
		}
		if phrase, _ := tokenizer.NormalizeQuery(event.Query); phrase != "" {
			queryCounts[phrase]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	// Most searched first, alphabetical among equals
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topSearches {
		popular = popular[:topSearches]
	}
	return popular
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		switch ms := event.ResponseTime.Milliseconds(); {
		case ms < 5:
			dist.Bucket0To5ms++
		case ms < 25:
			dist.Bucket5To25ms++
		case ms < 100:
			dist.Bucket25To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To5 = float64(dist.Bucket0To5ms) / float64(total) * 100
	dist.Percentage5To25 = float64(dist.Bucket5To25ms) / float64(total) * 100
	dist.Percentage25To100 = float64(dist.Bucket25To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100

	return dist
}

// getPhaseStats counts events by matching phase
func getPhaseStats(events []model.SearchEvent) model.SearchPhaseStats {
	stats := model.SearchPhaseStats{}

	for _, event := range events {
		switch event.Phase {
		case "strict":
			stats.Strict++
		case "fuzzy":
			stats.Fuzzy++
		case "all":
			stats.Browse++
		}
		if event.ResultCount == 0 {
			stats.NoResults++
		}
		if event.Filtered {
			stats.Filtered++
		}
		if event.Sorted {
			stats.Sorted++
		}
	}

	return stats
}

// loadData restores events from the data file
func (s *Service) loadData() error {
	if s.dataFile == "" {
		return nil
	}

	var data gobAnalyticsData
	err := persistence.LoadGob(s.dataFile, &data)
	if errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist yet, that's okay
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	s.mutex.Lock()
	s.events = append(s.events, data.Events...)
	s.mutex.Unlock()
	return nil
}

// saveData writes a snapshot of the events to the data file
func (s *Service) saveData() error {
	if s.dataFile == "" {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mutex.RLock()
	snapshot := gobAnalyticsData{Events: append([]model.SearchEvent(nil), s.events...)}
	s.mutex.RUnlock()

	return persistence.SaveGob(s.dataFile, snapshot)
}
