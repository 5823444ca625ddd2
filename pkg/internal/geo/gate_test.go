package geo_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/yeisme/geovault/pkg/internal/geo"
)

// validFeature builds an admissible feature document.
func validFeature(name string) map[string]any {
	return map[string]any{
		"type": "Feature",
		"geometry": map[string]any{
			"type":        "Point",
			"coordinates": []any{9.19, 45.4642},
		},
		"properties": map[string]any{
			"name":        name,
			"description": "a fountain",
			"category":    "Enti",
			"city":        "Milano",
		},
	}
}

func validCollection(n int) map[string]any {
	features := make([]any, 0, n)
	for i := 0; i < n; i++ {
		features = append(features, validFeature(fmt.Sprintf("feature-%d", i)))
	}

	return map[string]any{"type": "FeatureCollection", "features": features}
}

func TestValidateCollectionAccepts(t *testing.T) {
	if err := geo.ValidateCollection(validCollection(3)); err != nil {
		t.Errorf("expected valid collection to pass, got %v", err)
	}
}

func TestValidateCollectionStructural(t *testing.T) {
	// not an object
	if err := geo.ValidateCollection([]any{"x"}); err == nil {
		t.Error("expected error for non-object document")
	}

	// wrong type field
	doc := validCollection(1)
	doc["type"] = "Feature"

	if err := geo.ValidateCollection(doc); err == nil {
		t.Error("expected error for wrong document type")
	}

	// empty features
	doc = validCollection(0)
	if err := geo.ValidateCollection(doc); err == nil {
		t.Error("expected error for empty features array")
	}
}

// Removing any one required field must fail the whole document and the
// reported reason must name the offending feature's index.
func TestValidateCollectionReportsIndex(t *testing.T) {
	for _, field := range []string{"name", "description", "category", "city"} {
		doc := validCollection(3)
		features := doc["features"].([]any)
		props := features[1].(map[string]any)["properties"].(map[string]any)
		delete(props, field)

		err := geo.ValidateCollection(doc)
		if err == nil {
			t.Fatalf("expected error after removing %q", field)
		}

		var verr *geo.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}

		if len(verr.Reasons) != 1 {
			t.Fatalf("expected one reason, got %d", len(verr.Reasons))
		}

		if !strings.Contains(verr.Reasons[0], "feature 1") {
			t.Errorf("reason should name feature 1, got %q", verr.Reasons[0])
		}

		if !strings.Contains(verr.Reasons[0], field) {
			t.Errorf("reason should name field %q, got %q", field, verr.Reasons[0])
		}
	}
}

func TestValidateCollectionUnnamed(t *testing.T) {
	doc := validCollection(1)
	feature := doc["features"].([]any)[0].(map[string]any)
	props := feature["properties"].(map[string]any)
	props["name"] = "  "

	err := geo.ValidateCollection(doc)
	if err == nil {
		t.Fatal("expected error for blank name")
	}

	if !strings.Contains(err.Error(), "unnamed") {
		t.Errorf("expected blank-named feature to be reported as unnamed, got %q", err.Error())
	}
}

// Reasons are capped even when more features are broken.
func TestValidateCollectionCapsReasons(t *testing.T) {
	doc := validCollection(10)
	for _, raw := range doc["features"].([]any) {
		props := raw.(map[string]any)["properties"].(map[string]any)
		delete(props, "city")
	}

	err := geo.ValidateCollection(doc)

	var verr *geo.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if len(verr.Reasons) != geo.MaxValidationReasons {
		t.Errorf("expected %d reasons, got %d", geo.MaxValidationReasons, len(verr.Reasons))
	}
}

func TestValidateCollectionGeometry(t *testing.T) {
	doc := validCollection(2)
	feature := doc["features"].([]any)[0].(map[string]any)
	delete(feature, "geometry")

	if err := geo.ValidateCollection(doc); err == nil {
		t.Error("expected error for missing geometry")
	}

	doc = validCollection(2)
	feature = doc["features"].([]any)[1].(map[string]any)
	feature["geometry"].(map[string]any)["type"] = ""

	if err := geo.ValidateCollection(doc); err == nil {
		t.Error("expected error for geometry without type")
	}
}

// A document that went through encode/decode must validate the same way.
func TestValidateCollectionAfterRoundTrip(t *testing.T) {
	raw, err := sonic.Marshal(validCollection(2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if err := geo.ValidateCollection(doc); err != nil {
		t.Errorf("expected round-tripped collection to pass, got %v", err)
	}
}
