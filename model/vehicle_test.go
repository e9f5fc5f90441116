package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleField(t *testing.T) {
	v := Vehicle{
		ID:           "veh-1",
		Brand:        "Pegassi",
		Model:        "Zentorno",
		Class:        "Super",
		Manufacturer: "Pegassi S.p.A.",
		Drivetrain:   "AWD",
		Price:        725000,
		TopSpeedKmh:  205.5,
		Seats:        2,
		Tags:         []string{"mid-engine", "v12"},
	}

	tests := []struct {
		field string
		want  string
	}{
		{FieldID, "veh-1"},
		{FieldBrand, "Pegassi"},
		{FieldModel, "Zentorno"},
		{FieldClass, "Super"},
		{FieldManufacturer, "Pegassi S.p.A."},
		{FieldDrivetrain, "AWD"},
		{FieldPrice, "725000"},
		{FieldTopSpeedKmh, "205.5"},
		{FieldSeats, "2"},
		{FieldTags, "mid-engine v12"},
		{"color", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Field(tt.field))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Enus Deity", Vehicle{Brand: "Enus", Model: "Deity"}.DisplayName())
	assert.Equal(t, "Deity", Vehicle{Model: "Deity"}.DisplayName())
	assert.Equal(t, "", Vehicle{}.DisplayName())
}

func TestIsKnownField(t *testing.T) {
	for _, f := range KnownFields() {
		assert.True(t, IsKnownField(f), f)
	}
	assert.False(t, IsKnownField("Brand"))
	assert.False(t, IsKnownField(""))
}

func TestVehicleFields(t *testing.T) {
	fields := VehicleFields([]string{FieldModel, FieldBrand})
	require.Len(t, fields, 2)

	v := Vehicle{Brand: "Enus", Model: "Deity"}
	assert.Equal(t, FieldModel, fields[0].Name)
	assert.Equal(t, "Deity", fields[0].Value(v))
	assert.Equal(t, FieldBrand, fields[1].Name)
	assert.Equal(t, "Enus", fields[1].Value(v))
}

func TestParseListKind(t *testing.T) {
	kind, ok := ParseListKind("favorites")
	assert.True(t, ok)
	assert.Equal(t, ListFavorites, kind)

	kind, ok = ParseListKind("comparison")
	assert.True(t, ok)
	assert.Equal(t, ListComparison, kind)

	_, ok = ParseListKind("wishlist")
	assert.False(t, ok)
}

func TestVehicleListContains(t *testing.T) {
	list := &VehicleList{Kind: ListFavorites, IDs: []string{"a", "b"}}
	assert.True(t, list.Contains("a"))
	assert.False(t, list.Contains("c"))
}
