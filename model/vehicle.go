package model

import (
	"strconv"
	"strings"

	"github.com/gcbaptista/go-catalog-search/internal/matcher"
)

// Field names shared by the feed, the settings and the API.
const (
	FieldID           = "id"
	FieldBrand        = "brand"
	FieldModel        = "model"
	FieldClass        = "class"
	FieldManufacturer = "manufacturer"
	FieldDrivetrain   = "drivetrain"
	FieldPrice        = "price"
	FieldTopSpeedKmh  = "top_speed_kmh"
	FieldSeats        = "seats"
	FieldTags         = "tags"
)

// Vehicle is one catalog entry.
type Vehicle struct {
	ID           string   `json:"id" yaml:"id"`
	Brand        string   `json:"brand" yaml:"brand"`
	Model        string   `json:"model" yaml:"model"`
	Class        string   `json:"class" yaml:"class"`
	Manufacturer string   `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Drivetrain   string   `json:"drivetrain,omitempty" yaml:"drivetrain,omitempty"`
	Price        int64    `json:"price" yaml:"price"`
	TopSpeedKmh  float64  `json:"top_speed_kmh" yaml:"top_speed_kmh"`
	Seats        int      `json:"seats" yaml:"seats"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Field returns the textual value of a named field.
// Numeric fields are formatted without trailing zeros, tags are space-joined,
// and unknown fields yield "".
func (v Vehicle) Field(name string) string {
	switch name {
	case FieldID:
		return v.ID
	case FieldBrand:
		return v.Brand
	case FieldModel:
		return v.Model
	case FieldClass:
		return v.Class
	case FieldManufacturer:
		return v.Manufacturer
	case FieldDrivetrain:
		return v.Drivetrain
	case FieldPrice:
		return strconv.FormatInt(v.Price, 10)
	case FieldTopSpeedKmh:
		return strconv.FormatFloat(v.TopSpeedKmh, 'f', -1, 64)
	case FieldSeats:
		return strconv.Itoa(v.Seats)
	case FieldTags:
		return strings.Join(v.Tags, " ")
	default:
		return ""
	}
}

// DisplayName is "Brand Model", or whichever half is present.
func (v Vehicle) DisplayName() string {
	return strings.TrimSpace(v.Brand + " " + v.Model)
}

// KnownFields lists every field name Vehicle.Field understands, in feed order.
func KnownFields() []string {
	return []string{
		FieldID, FieldBrand, FieldModel, FieldClass, FieldManufacturer,
		FieldDrivetrain, FieldPrice, FieldTopSpeedKmh, FieldSeats, FieldTags,
	}
}

// IsKnownField reports whether name is a Vehicle field.
func IsKnownField(name string) bool {
	for _, f := range KnownFields() {
		if f == name {
			return true
		}
	}
	return false
}

// VehicleFields builds matcher selectors for the named fields, in the given order.
func VehicleFields(names []string) []matcher.Field[Vehicle] {
	fields := make([]matcher.Field[Vehicle], 0, len(names))
	for _, name := range names {
		fields = append(fields, matcher.Field[Vehicle]{
			Name:  name,
			Value: func(v Vehicle) string { return v.Field(name) },
		})
	}
	return fields
}
