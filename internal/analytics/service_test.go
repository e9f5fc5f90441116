package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/gcbaptista/go-catalog-search/internal/testing"
	"github.com/gcbaptista/go-catalog-search/model"
)

type staticCatalog struct {
	vehicles []model.Vehicle
}

func (s staticCatalog) Vehicles() []model.Vehicle { return s.vehicles }

// newTestService returns a service whose clock is controlled by the returned pointer
func newTestService(t *testing.T, dataFile string) (*Service, *time.Time) {
	t.Helper()
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service := NewService(staticCatalog{vehicles: testutil.SampleVehicles()}, Options{
		DataFile: dataFile,
		Logger:   testutil.QuietLogger(),
	})
	service.now = func() time.Time { return clock }
	return service, &clock
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service, clock := newTestService(t, "")

	err := service.TrackSearchEvent(model.SearchEvent{
		Query:        "Enus",
		Phase:        "strict",
		ResponseTime: 3 * time.Millisecond,
		ResultCount:  2,
	})
	require.NoError(t, err)

	require.Len(t, service.events, 1)
	assert.Equal(t, "Enus", service.events[0].Query)
	assert.Equal(t, *clock, service.events[0].Timestamp, "timestamp is set on track")
}

func TestAnalyticsService_EventLimit(t *testing.T) {
	service, _ := newTestService(t, "")

	for i := 0; i < maxEventsToKeep+5; i++ {
		require.NoError(t, service.TrackSearchEvent(model.SearchEvent{Query: "futo", Phase: "strict", ResultCount: 1}))
	}
	assert.Len(t, service.events, maxEventsToKeep)
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	service, clock := newTestService(t, "")
	start := *clock

	track := func(at time.Time, event model.SearchEvent) {
		*clock = at
		require.NoError(t, service.TrackSearchEvent(event))
	}

	// Previous day: one slow search
	track(start.Add(-30*time.Hour), model.SearchEvent{Query: "zentorno", Phase: "strict", ResponseTime: 40 * time.Millisecond, ResultCount: 1})

	// Last 24 hours
	track(start.Add(-2*time.Hour), model.SearchEvent{Query: "Enus", Phase: "strict", ResponseTime: 2 * time.Millisecond, ResultCount: 2})
	track(start.Add(-90*time.Minute), model.SearchEvent{Query: "  enus ", Phase: "strict", ResponseTime: 4 * time.Millisecond, ResultCount: 2, Sorted: true})
	track(start.Add(-time.Hour), model.SearchEvent{Query: "Deitey", Phase: "fuzzy", ResponseTime: 10 * time.Millisecond, ResultCount: 1})
	track(start.Add(-30*time.Minute), model.SearchEvent{Query: "zzzz", Phase: "", ResponseTime: 30 * time.Millisecond, ResultCount: 0})
	track(start.Add(-10*time.Minute), model.SearchEvent{Query: "", Phase: "all", ResponseTime: 150 * time.Millisecond, ResultCount: 5, Filtered: true})

	*clock = start
	dashboard := service.GetDashboardData()

	assert.Equal(t, 5, dashboard.TotalSearches)
	assert.InDelta(t, 400.0, dashboard.SearchesChangePercent, 1e-9)
	// (2 + 4 + 10 + 30 + 150) / 5 = 39.2ms
	assert.Equal(t, int64(39), dashboard.AvgResponseTime)
	assert.Equal(t, "stable", dashboard.ResponseTimeChange)
	assert.Equal(t, 5, dashboard.CatalogVehicles)
	assert.InDelta(t, 1.0/3.0, dashboard.FuzzyRate, 1e-9)

	assert.Equal(t, model.SearchPhaseStats{Strict: 2, Fuzzy: 1, Browse: 1, NoResults: 1, Filtered: 1, Sorted: 1}, dashboard.Phases)

	dist := dashboard.ResponseTimeDistribution
	assert.Equal(t, 2, dist.Bucket0To5ms)
	assert.Equal(t, 1, dist.Bucket5To25ms)
	assert.Equal(t, 1, dist.Bucket25To100ms)
	assert.Equal(t, 1, dist.Bucket100msPlus)
	assert.InDelta(t, 40.0, dist.Percentage0To5, 1e-9)

	require.Len(t, dashboard.SearchPerformance24h, 24)
	assert.Equal(t, 2, dashboard.SearchPerformance24h[10].SearchCount)
	assert.Equal(t, int64(3), dashboard.SearchPerformance24h[10].AvgResponseTime)
	assert.Equal(t, 3, dashboard.SearchPerformance24h[11].SearchCount)

	// Queries are normalized and the empty browse query is not counted
	assert.Equal(t, []model.PopularSearch{
		{Query: "enus", SearchCount: 2},
		{Query: "deitey", SearchCount: 1},
		{Query: "zentorno", SearchCount: 1},
		{Query: "zzzz", SearchCount: 1},
	}, dashboard.PopularSearches)
	assert.Equal(t, []model.PopularSearch{{Query: "zzzz", SearchCount: 1}}, dashboard.ZeroResultSearches)
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	service, _ := newTestService(t, "")

	dashboard := service.GetDashboardData()
	assert.Equal(t, 0, dashboard.TotalSearches)
	assert.Equal(t, 0.0, dashboard.SearchesChangePercent)
	assert.Equal(t, "stable", dashboard.ResponseTimeChange)
	assert.Equal(t, 0.0, dashboard.FuzzyRate)
	assert.Empty(t, dashboard.PopularSearches)
	assert.Len(t, dashboard.SearchPerformance24h, 24)
}

func TestAnalyticsService_Persistence(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "analytics.gob")

	service, clock := newTestService(t, dataFile)
	require.NoError(t, service.TrackSearchEvent(model.SearchEvent{Query: "turismo", Phase: "strict", ResultCount: 1}))
	require.NoError(t, service.TrackSearchEvent(model.SearchEvent{Query: "turismo", Phase: "strict", ResultCount: 1}))
	require.NoError(t, service.Flush())

	restored := NewService(nil, Options{DataFile: dataFile, Logger: testutil.QuietLogger()})
	restored.now = func() time.Time { return *clock }

	dashboard := restored.GetDashboardData()
	assert.Equal(t, 2, dashboard.TotalSearches)
	assert.Equal(t, 0, dashboard.CatalogVehicles)
	assert.Equal(t, []model.PopularSearch{{Query: "turismo", SearchCount: 2}}, dashboard.PopularSearches)
}

func TestCalculateChangePercent(t *testing.T) {
	assert.Equal(t, 0.0, calculateChangePercent(0, 0))
	assert.Equal(t, 100.0, calculateChangePercent(3, 0))
	assert.Equal(t, 50.0, calculateChangePercent(15, 10))
	assert.Equal(t, -50.0, calculateChangePercent(5, 10))
}

func TestCalculateResponseTimeChange(t *testing.T) {
	slow := []model.SearchEvent{{ResponseTime: 100 * time.Millisecond}}
	fast := []model.SearchEvent{{ResponseTime: 50 * time.Millisecond}}

	assert.Equal(t, "up", calculateResponseTimeChange(slow, fast))
	assert.Equal(t, "down", calculateResponseTimeChange(fast, slow))
	assert.Equal(t, "stable", calculateResponseTimeChange(fast, fast))
	assert.Equal(t, "stable", calculateResponseTimeChange(fast, nil))
}
