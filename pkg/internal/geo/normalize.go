package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Pre-acceptance failures reject the whole input before any row is mapped.
var (
	ErrAlreadyStructured  = errors.New("input already carries platform fields")
	ErrNonPrimitiveCell   = errors.New("cell values must be primitive")
	ErrEmbeddedObject     = errors.New("cell contains an embedded object literal")
	ErrMissingCoordinates = errors.New("no latitude/longitude columns found")
	ErrNonPointGeometry   = errors.New("geographic input must carry Point geometries only")
	ErrIncompleteMapping  = errors.New("field mapping must cover all required fields")
)

// Property keys the pipeline itself produces. Input that already carries
// them has been through a conversion once and is refused.
var reservedFields = []string{"links", "documents", "extra"}

// Column name aliases recognized when the mapping does not pin the
// coordinate pair explicitly.
var (
	latitudeAliases  = []string{"lat", "latitude", "latitudine", "y", "lat_dd"}
	longitudeAliases = []string{"lon", "lng", "long", "longitude", "longitudine", "x", "lon_dd"}
)

// GroupMapping folds one source field into a labelled entry of a
// multi-value collection (links or documents).
type GroupMapping struct {
	Label string `json:"label" rule:"required"`
	Field string `json:"field" rule:"required"`
}

// FieldMapping is the operator-supplied translation from source field
// names to the platform schema. Fields maps each required platform field
// (name, description, category, city) to its source column. Latitude and
// Longitude may be left empty for tabular input, in which case the first
// recognized alias column is used.
type FieldMapping struct {
	Fields    map[string]string `json:"fields" rule:"required"`
	Latitude  string            `json:"latitude"`
	Longitude string            `json:"longitude"`
	Links     []GroupMapping    `json:"links"`
	Documents []GroupMapping    `json:"documents"`
	Ignore    []string          `json:"ignore"`
}

// Validate checks the mapping covers every required platform field.
func (m FieldMapping) Validate() error {
	for _, field := range RequiredProperties {
		if strings.TrimSpace(m.Fields[field]) == "" {
			return fmt.Errorf("%w: %q is not mapped", ErrIncompleteMapping, field)
		}
	}

	return nil
}

// consumed reports the source fields the mapping claims, so the extra bag
// can collect only the leftovers.
func (m FieldMapping) consumed() map[string]bool {
	out := make(map[string]bool)

	for _, src := range m.Fields {
		out[src] = true
	}

	if m.Latitude != "" {
		out[m.Latitude] = true
	}

	if m.Longitude != "" {
		out[m.Longitude] = true
	}

	for _, g := range m.Links {
		out[g.Field] = true
	}

	for _, g := range m.Documents {
		out[g.Field] = true
	}

	for _, field := range m.Ignore {
		out[field] = true
	}

	return out
}

// ParseDelimited reads delimited text into one map per data row, keyed by
// the header row. Every cell stays a string; type interpretation happens
// during mapping.
func ParseDelimited(r io.Reader, comma rune) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse delimited input: %w", err)
	}

	if len(records) < 2 {
		return nil, errors.New("delimited input needs a header row and at least one data row")
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(map[string]any, len(header))

		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// NormalizeRows converts tabular rows into a canonical feature collection.
// The whole input is rejected up front when it is structurally unusable;
// after that, individual rows that cannot conform are dropped without
// failing the batch.
func NormalizeRows(rows []map[string]any, mapping FieldMapping) (*geojson.FeatureCollection, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	if err := checkRows(rows); err != nil {
		return nil, err
	}

	latField, lonField, err := resolveCoordinateFields(rows, mapping)
	if err != nil {
		return nil, err
	}

	consumed := mapping.consumed()
	consumed[latField] = true
	consumed[lonField] = true

	fc := geojson.NewFeatureCollection()

	for _, row := range rows {
		lat, latOK := ParseCoordinate(row[latField])
		lon, lonOK := ParseCoordinate(row[lonField])

		if !latOK || !lonOK {
			continue
		}

		props, ok := mapProperties(row, mapping, consumed)
		if !ok {
			continue
		}

		feature := geojson.NewFeature(orb.Point{lon, lat})
		feature.Properties = props
		fc.Append(feature)
	}

	return fc, nil
}

// NormalizeFeatures converts loosely-structured geographic input. Every
// record must already carry a Point geometry; properties go through the
// same mapping as tabular rows.
func NormalizeFeatures(in *geojson.FeatureCollection, mapping FieldMapping) (*geojson.FeatureCollection, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(in.Features))

	for i, feature := range in.Features {
		if _, ok := feature.Geometry.(orb.Point); !ok {
			return nil, fmt.Errorf("%w: record %d", ErrNonPointGeometry, i)
		}

		rows = append(rows, feature.Properties)
	}

	if err := checkRows(rows); err != nil {
		return nil, err
	}

	consumed := mapping.consumed()
	fc := geojson.NewFeatureCollection()

	for i, feature := range in.Features {
		props, ok := mapProperties(feature.Properties, mapping, consumed)
		if !ok {
			continue
		}

		out := geojson.NewFeature(in.Features[i].Geometry)
		out.Properties = props
		fc.Append(out)
	}

	return fc, nil
}

// checkRows runs the pre-acceptance checks shared by both input kinds.
func checkRows(rows []map[string]any) error {
	for i, row := range rows {
		for _, field := range reservedFields {
			if _, exists := row[field]; exists {
				return fmt.Errorf("%w: row %d has %q", ErrAlreadyStructured, i, field)
			}
		}

		for column, value := range row {
			switch v := value.(type) {
			case nil, bool, float64, float32, int, int64, string:
				if s, ok := v.(string); ok && isObjectLiteral(s) {
					return fmt.Errorf("%w: row %d column %q", ErrEmbeddedObject, i, column)
				}
			default:
				return fmt.Errorf("%w: row %d column %q", ErrNonPrimitiveCell, i, column)
			}
		}
	}

	return nil
}

// resolveCoordinateFields pins the latitude/longitude source columns,
// falling back to alias detection over the first row when the mapping
// leaves them unset.
func resolveCoordinateFields(rows []map[string]any, mapping FieldMapping) (string, string, error) {
	latField := mapping.Latitude
	lonField := mapping.Longitude

	if latField == "" {
		latField = detectAlias(rows, latitudeAliases)
	}

	if lonField == "" {
		lonField = detectAlias(rows, longitudeAliases)
	}

	if latField == "" || lonField == "" {
		return "", "", ErrMissingCoordinates
	}

	return latField, lonField, nil
}

func detectAlias(rows []map[string]any, aliases []string) string {
	if len(rows) == 0 {
		return ""
	}

	for _, alias := range aliases {
		for column := range rows[0] {
			if strings.EqualFold(column, alias) {
				return column
			}
		}
	}

	return ""
}

// mapProperties builds the canonical property bag for one row. It returns
// false when any required platform field is blank, which drops the row.
func mapProperties(row map[string]any, mapping FieldMapping, consumed map[string]bool) (geojson.Properties, bool) {
	props := geojson.Properties{}

	for _, field := range RequiredProperties {
		value := stringifyCell(row[mapping.Fields[field]])
		if value == "" {
			return nil, false
		}

		props[field] = value
	}

	if links := collectGroups(row, mapping.Links); len(links) > 0 {
		props["links"] = links
	}

	if docs := collectGroups(row, mapping.Documents); len(docs) > 0 {
		props["documents"] = docs
	}

	extra := make(map[string]any)

	for column, value := range row {
		if !consumed[column] {
			extra[column] = value
		}
	}

	if len(extra) > 0 {
		props["extra"] = extra
	}

	return props, true
}

// collectGroups folds mapped source fields into labelled entries, skipping
// blanks.
func collectGroups(row map[string]any, groups []GroupMapping) []map[string]any {
	out := make([]map[string]any, 0, len(groups))

	for _, g := range groups {
		value := stringifyCell(row[g.Field])
		if value == "" {
			continue
		}

		out = append(out, map[string]any{"label": g.Label, "value": value})
	}

	return out
}

// ParseCoordinate interprets a cell as a coordinate value. Decimal commas
// are treated as decimal points before parsing, so "45,4642" resolves to
// 45.4642.
func ParseCoordinate(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}

		s = strings.ReplaceAll(s, ",", ".")

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// stringifyCell renders a primitive cell as the string stored in the
// canonical schema. Blank and nil cells render empty.
func stringifyCell(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// isObjectLiteral reports whether a string cell holds parseable embedded
// JSON structure.
func isObjectLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return false
	}

	var v any
	if err := sonic.UnmarshalString(s, &v); err != nil {
		return false
	}

	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
