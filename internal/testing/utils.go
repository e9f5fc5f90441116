// Package testing provides fixtures and helpers for testing the catalog service.
package testing

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/catalog"
	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

// SampleFeedCSV is a small catalog feed in the format ingest.ParseCSV reads.
const SampleFeedCSV = `id,brand,model,class,drivetrain,price,top_speed_kmh,seats,tags
enus-deity,Enus,Deity,Sedans,RWD,1845000,166.8,4,armored;luxury
enus-sd,Enus,Super Diamond,Sedans,RWD,250000,160.1,4,luxury
pegassi-zentorno,Pegassi,Zentorno,Super,AWD,725000,205.5,2,v12
grotti-turismo,Grotti,Turismo Classic,Sports Classics,RWD,705000,191.3,2,
karin-futo,Karin,Futo,Sports,RWD,9000,172.4,2,drift
`

// SampleVehicles returns the vehicles of SampleFeedCSV.
func SampleVehicles() []model.Vehicle {
	return []model.Vehicle{
		{ID: "enus-deity", Brand: "Enus", Model: "Deity", Class: "Sedans", Drivetrain: "RWD", Price: 1845000, TopSpeedKmh: 166.8, Seats: 4, Tags: []string{"armored", "luxury"}},
		{ID: "enus-sd", Brand: "Enus", Model: "Super Diamond", Class: "Sedans", Drivetrain: "RWD", Price: 250000, TopSpeedKmh: 160.1, Seats: 4, Tags: []string{"luxury"}},
		{ID: "pegassi-zentorno", Brand: "Pegassi", Model: "Zentorno", Class: "Super", Drivetrain: "AWD", Price: 725000, TopSpeedKmh: 205.5, Seats: 2, Tags: []string{"v12"}},
		{ID: "grotti-turismo", Brand: "Grotti", Model: "Turismo Classic", Class: "Sports Classics", Drivetrain: "RWD", Price: 705000, TopSpeedKmh: 191.3, Seats: 2},
		{ID: "karin-futo", Brand: "Karin", Model: "Futo", Class: "Sports", Drivetrain: "RWD", Price: 9000, TopSpeedKmh: 172.4, Seats: 2, Tags: []string{"drift"}},
	}
}

// QuietLogger returns a logger that discards output.
func QuietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// CreateTestCatalog creates a catalog service loaded with SampleVehicles.
// A nil settings pointer uses the defaults. dataDir may be empty for an in-memory service.
func CreateTestCatalog(t *testing.T, settings *config.CatalogSettings, dataDir string) *catalog.Service {
	t.Helper()

	effective := config.DefaultCatalogSettings()
	if settings != nil {
		effective = *settings
	}

	svc, err := catalog.NewService(effective, catalog.Options{DataDir: dataDir, Logger: QuietLogger()})
	require.NoError(t, err, "Failed to create test catalog")
	require.NoError(t, svc.Reload(SampleVehicles()), "Failed to load sample vehicles")

	return svc
}

// SearchTestCase represents a test case for catalog search
type SearchTestCase struct {
	Name          string
	Query         services.SearchQuery
	ExpectedIDs   []string // Expected vehicle IDs, in order
	ExpectedPhase string
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := searcher.Search(tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedIDs, HitIDs(results), "Result IDs should match")
			assert.Equal(t, len(tt.ExpectedIDs), results.Total, "Result count should match")
			assert.Equal(t, tt.ExpectedPhase, results.Phase, "Result phase should match")
		})
	}
}

// HitIDs extracts the vehicle IDs of a result page
func HitIDs(result services.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.Vehicle.ID)
	}
	return ids
}
