package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
)

const sampleFeed = `id,Brand,Model,Class,Price,Top Speed (km/h),Seats,Tags,Notes
enus-deity,Enus,Deity,Sedans,"1,845,000",166.8,4,armored;luxury,ignored column
enus-sd,Enus,Super Diamond,Sedans,250000,160.1,4,,
pegassi-zentorno,Pegassi,Zentorno,Super,725000,205.5,2,mid-engine; v12 ,
`

func TestParseCSV(t *testing.T) {
	feed := strings.Replace(sampleFeed, "Top Speed (km/h)", "top_speed", 1)

	vehicles, err := ParseCSV(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, vehicles, 3)

	assert.Equal(t, model.Vehicle{
		ID:          "enus-deity",
		Brand:       "Enus",
		Model:       "Deity",
		Class:       "Sedans",
		Price:       1845000,
		TopSpeedKmh: 166.8,
		Seats:       4,
		Tags:        []string{"armored", "luxury"},
	}, vehicles[0])

	assert.Equal(t, "Super Diamond", vehicles[1].Model)
	assert.Nil(t, vehicles[1].Tags)
	assert.Equal(t, []string{"mid-engine", "v12"}, vehicles[2].Tags)
}

func TestParseCSV_UnknownColumnsIgnored(t *testing.T) {
	// "Top Speed (km/h)" is not a known header and is dropped silently.
	vehicles, err := ParseCSV(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, vehicles, 3)
	assert.Zero(t, vehicles[0].TopSpeedKmh)
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	feed := "Make,Name,Drive\nKarin,Futo,RWD\n"

	vehicles, err := ParseCSV(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Karin", vehicles[0].Brand)
	assert.Equal(t, "Futo", vehicles[0].Model)
	assert.Equal(t, "RWD", vehicles[0].Drivetrain)
}

func TestParseCSV_GeneratesMissingIDs(t *testing.T) {
	feed := "brand,model\nEnus,Deity\nEnus,Super Diamond\n"

	vehicles, err := ParseCSV(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	for _, v := range vehicles {
		_, err := uuid.Parse(v.ID)
		assert.NoError(t, err, "expected generated UUID, got %q", v.ID)
	}
	assert.NotEqual(t, vehicles[0].ID, vehicles[1].ID)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name       string
		feed       string
		wantLine   int
		wantColumn string
	}{
		{"empty feed", "", 1, ""},
		{"no known columns", "color,weight\nred,1200\n", 1, ""},
		{"bad price", "brand,price\nEnus,cheap\n", 2, model.FieldPrice},
		{"bad seats", "brand,seats\nEnus,4\nPegassi,two\n", 3, model.FieldSeats},
		{"bad top speed", "brand,top_speed_kmh\nEnus,fast\n", 2, model.FieldTopSpeedKmh},
		{"wrong field count", "brand,model\nEnus,Deity,extra\n", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.feed))
			require.Error(t, err)
			assert.ErrorIs(t, err, internalErrors.ErrInvalidFeed)

			var feedErr *internalErrors.FeedError
			require.ErrorAs(t, err, &feedErr)
			assert.Equal(t, tt.wantLine, feedErr.Line)
			assert.Equal(t, tt.wantColumn, feedErr.Column)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte("brand,model\nPegassi,Zentorno\n"), 0o600))

	vehicles, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Zentorno", vehicles[0].Model)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
