package geo_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/yeisme/geovault/pkg/internal/geo"
)

func testMapping() geo.FieldMapping {
	return geo.FieldMapping{
		Fields: map[string]string{
			"name":        "nome",
			"description": "descrizione",
			"category":    "tipo",
			"city":        "comune",
		},
		Latitude:  "lat",
		Longitude: "lon",
	}
}

func testRow(name string) map[string]any {
	return map[string]any{
		"nome":        name,
		"descrizione": "fontana storica",
		"tipo":        "Enti",
		"comune":      "Milano",
		"lat":         "45,4642",
		"lon":         "9,1900",
	}
}

// Decimal commas resolve as decimal points.
func TestParseCoordinateDecimalComma(t *testing.T) {
	lat, ok := geo.ParseCoordinate("45,4642")
	if !ok || lat != 45.4642 {
		t.Errorf("expected 45.4642, got %v (ok=%v)", lat, ok)
	}

	lon, ok := geo.ParseCoordinate("9,1900")
	if !ok || lon != 9.19 {
		t.Errorf("expected 9.19, got %v (ok=%v)", lon, ok)
	}

	if _, ok := geo.ParseCoordinate(""); ok {
		t.Error("expected blank cell to fail")
	}

	if _, ok := geo.ParseCoordinate("nord"); ok {
		t.Error("expected non-numeric cell to fail")
	}
}

// Output of the normalizer must pass the ingestion gate unmodified.
func TestNormalizeRowsRoundTrip(t *testing.T) {
	rows := []map[string]any{testRow("Fontana A"), testRow("Fontana B")}

	fc, err := geo.NormalizeRows(rows, testMapping())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}

	point, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("expected Point geometry, got %T", fc.Features[0].Geometry)
	}

	if point.Lat() != 45.4642 || point.Lon() != 9.19 {
		t.Errorf("unexpected coordinates: %v", point)
	}

	raw, err := sonic.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if err := geo.ValidateCollection(doc); err != nil {
		t.Errorf("normalized output should pass the gate, got %v", err)
	}
}

// A row with a blank required field is dropped, not fatal.
func TestNormalizeRowsDropsIncomplete(t *testing.T) {
	bad := testRow("Senza Comune")
	bad["comune"] = ""

	rows := []map[string]any{testRow("Fontana A"), bad}

	fc, err := geo.NormalizeRows(rows, testMapping())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 1 {
		t.Fatalf("expected the incomplete row to be dropped, got %d features", len(fc.Features))
	}

	if fc.Features[0].Properties["name"] != "Fontana A" {
		t.Errorf("wrong surviving row: %v", fc.Features[0].Properties)
	}
}

func TestNormalizeRowsDropsBadCoordinates(t *testing.T) {
	bad := testRow("Fuori Mappa")
	bad["lat"] = "n/a"

	blank := testRow("Senza Coordinate")
	blank["lon"] = ""

	rows := []map[string]any{bad, blank, testRow("Fontana A")}

	fc, err := geo.NormalizeRows(rows, testMapping())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 1 {
		t.Errorf("expected 1 surviving feature, got %d", len(fc.Features))
	}
}

func TestNormalizeRowsPreAcceptance(t *testing.T) {
	// platform fields already present
	structured := testRow("Doppio Passaggio")
	structured["links"] = "x"

	if _, err := geo.NormalizeRows([]map[string]any{structured}, testMapping()); !errors.Is(err, geo.ErrAlreadyStructured) {
		t.Errorf("expected ErrAlreadyStructured, got %v", err)
	}

	// non-primitive cell
	nested := testRow("Annidato")
	nested["descrizione"] = map[string]any{"it": "fontana"}

	if _, err := geo.NormalizeRows([]map[string]any{nested}, testMapping()); !errors.Is(err, geo.ErrNonPrimitiveCell) {
		t.Errorf("expected ErrNonPrimitiveCell, got %v", err)
	}

	// embedded object literal in a string cell
	embedded := testRow("Letterale")
	embedded["descrizione"] = `{"it": "fontana"}`

	if _, err := geo.NormalizeRows([]map[string]any{embedded}, testMapping()); !errors.Is(err, geo.ErrEmbeddedObject) {
		t.Errorf("expected ErrEmbeddedObject, got %v", err)
	}

	// no coordinate columns at all
	mapping := testMapping()
	mapping.Latitude = ""
	mapping.Longitude = ""

	row := testRow("Senza Colonne")
	delete(row, "lat")
	delete(row, "lon")

	if _, err := geo.NormalizeRows([]map[string]any{row}, mapping); !errors.Is(err, geo.ErrMissingCoordinates) {
		t.Errorf("expected ErrMissingCoordinates, got %v", err)
	}
}

func TestNormalizeRowsMappingValidation(t *testing.T) {
	mapping := testMapping()
	delete(mapping.Fields, "city")

	if _, err := geo.NormalizeRows([]map[string]any{testRow("X")}, mapping); !errors.Is(err, geo.ErrIncompleteMapping) {
		t.Errorf("expected ErrIncompleteMapping, got %v", err)
	}
}

// Coordinate columns fall back to recognized aliases when the mapping
// leaves them unset.
func TestNormalizeRowsAliasDetection(t *testing.T) {
	mapping := testMapping()
	mapping.Latitude = ""
	mapping.Longitude = ""

	row := testRow("Alias")
	delete(row, "lat")
	delete(row, "lon")
	row["Latitudine"] = "45.5"
	row["Longitudine"] = "9.2"

	fc, err := geo.NormalizeRows([]map[string]any{row}, mapping)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
}

// Unmapped, non-ignored fields land verbatim in the extra bag; grouped
// fields become labelled link entries.
func TestNormalizeRowsExtraAndGroups(t *testing.T) {
	mapping := testMapping()
	mapping.Links = []geo.GroupMapping{{Label: "Sito", Field: "sito_web"}}
	mapping.Ignore = []string{"note_interne"}

	row := testRow("Fontana A")
	row["sito_web"] = "https://example.org"
	row["note_interne"] = "bozza"
	row["anno"] = "1928"

	fc, err := geo.NormalizeRows([]map[string]any{row}, mapping)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	props := fc.Features[0].Properties

	links, ok := props["links"].([]map[string]any)
	if !ok || len(links) != 1 {
		t.Fatalf("expected one link entry, got %v", props["links"])
	}

	if links[0]["label"] != "Sito" || links[0]["value"] != "https://example.org" {
		t.Errorf("unexpected link entry: %v", links[0])
	}

	extra, ok := props["extra"].(map[string]any)
	if !ok {
		t.Fatalf("expected extra bag, got %T", props["extra"])
	}

	if extra["anno"] != "1928" {
		t.Errorf("expected unmapped field in extra bag, got %v", extra)
	}

	if _, exists := extra["note_interne"]; exists {
		t.Error("ignored field must not reach the extra bag")
	}
}

func TestNormalizeFeatures(t *testing.T) {
	in := geojson.NewFeatureCollection()

	f := geojson.NewFeature(orb.Point{9.19, 45.4642})
	f.Properties = geojson.Properties{
		"nome":        "Fontana A",
		"descrizione": "fontana storica",
		"tipo":        "Enti",
		"comune":      "Milano",
	}
	in.Append(f)

	mapping := testMapping()
	mapping.Latitude = ""
	mapping.Longitude = ""

	fc, err := geo.NormalizeFeatures(in, mapping)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	if fc.Features[0].Properties["city"] != "Milano" {
		t.Errorf("expected mapped city, got %v", fc.Features[0].Properties)
	}
}

// Non-point geometry rejects the whole geographic input.
func TestNormalizeFeaturesRejectsNonPoint(t *testing.T) {
	in := geojson.NewFeatureCollection()
	in.Append(geojson.NewFeature(orb.LineString{{9, 45}, {10, 46}}))

	mapping := testMapping()

	if _, err := geo.NormalizeFeatures(in, mapping); !errors.Is(err, geo.ErrNonPointGeometry) {
		t.Errorf("expected ErrNonPointGeometry, got %v", err)
	}
}

func TestParseDelimited(t *testing.T) {
	input := "nome;descrizione;tipo;comune;lat;lon\n" +
		"Fontana A;fontana storica;Enti;Milano;45,4642;9,1900\n" +
		"Fontana B;altra fontana;Enti;Milano;45,4700;9,2000\n"

	rows, err := geo.ParseDelimited(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0]["nome"] != "Fontana A" {
		t.Errorf("unexpected first row: %v", rows[0])
	}

	fc, err := geo.NormalizeRows(rows, testMapping())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if len(fc.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(fc.Features))
	}
}
