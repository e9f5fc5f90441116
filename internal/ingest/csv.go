// Package ingest loads catalog feeds into vehicles.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/go-catalog-search/internal/errors"
	"github.com/gcbaptista/go-catalog-search/model"
)

// TagSeparator splits the tags column into individual tags.
const TagSeparator = ";"

// headerAliases maps alternative header spellings to field names.
var headerAliases = map[string]string{
	"vehicle_id": model.FieldID,
	"make":       model.FieldBrand,
	"name":       model.FieldModel,
	"top_speed":  model.FieldTopSpeedKmh,
	"topspeed":   model.FieldTopSpeedKmh,
	"drive":      model.FieldDrivetrain,
}

// LoadFile opens a CSV feed from disk and parses it.
func LoadFile(path string) ([]model.Vehicle, error) {
	file, err := os.Open(path) // #nosec G304 -- feed path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open feed %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	vehicles, err := ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}
	return vehicles, nil
}

// ParseCSV reads a header row followed by one vehicle per row.
// Headers are matched case-insensitively; unknown columns are ignored.
// Rows without an id get a generated UUID. Blank lines are skipped.
func ParseCSV(r io.Reader) ([]model.Vehicle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, internalErrors.NewFeedError(1, "", errors.New("missing header row"))
		}
		return nil, internalErrors.NewFeedError(1, "", err)
	}

	columns := make(map[int]string, len(header))
	for i, name := range header {
		field := normalizeHeader(name)
		if model.IsKnownField(field) {
			columns[i] = field
		}
	}
	if len(columns) == 0 {
		return nil, internalErrors.NewFeedError(1, "", errors.New("header has no known columns"))
	}

	vehicles := make([]model.Vehicle, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			return nil, internalErrors.NewFeedError(line, "", err)
		}
		line, _ := reader.FieldPos(0)

		v, err := parseRow(record, columns, line)
		if err != nil {
			return nil, err
		}
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	if alias, ok := headerAliases[name]; ok {
		return alias
	}
	return name
}

func parseRow(record []string, columns map[int]string, line int) (model.Vehicle, error) {
	var v model.Vehicle
	for i, raw := range record {
		field, ok := columns[i]
		if !ok {
			continue
		}
		value := strings.TrimSpace(raw)
		if err := setField(&v, field, value); err != nil {
			return model.Vehicle{}, internalErrors.NewFeedError(line, field, err)
		}
	}
	return v, nil
}

func setField(v *model.Vehicle, field, value string) error {
	switch field {
	case model.FieldID:
		v.ID = value
	case model.FieldBrand:
		v.Brand = value
	case model.FieldModel:
		v.Model = value
	case model.FieldClass:
		v.Class = value
	case model.FieldManufacturer:
		v.Manufacturer = value
	case model.FieldDrivetrain:
		v.Drivetrain = value
	case model.FieldPrice:
		if value == "" {
			return nil
		}
		price, err := strconv.ParseInt(strings.NewReplacer("$", "", ",", "").Replace(value), 10, 64)
		if err != nil {
			return err
		}
		v.Price = price
	case model.FieldTopSpeedKmh:
		if value == "" {
			return nil
		}
		speed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		v.TopSpeedKmh = speed
	case model.FieldSeats:
		if value == "" {
			return nil
		}
		seats, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		v.Seats = seats
	case model.FieldTags:
		for _, tag := range strings.Split(value, TagSeparator) {
			if tag = strings.TrimSpace(tag); tag != "" {
				v.Tags = append(v.Tags, tag)
			}
		}
	}
	return nil
}
