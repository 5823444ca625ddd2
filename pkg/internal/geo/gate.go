// Package geo implements the two admission paths for inbound feature
// collections: the strict whole-document gate every stored document must
// pass, and the row-permissive normalizer that converts heterogeneous
// tabular or geographic input into the canonical schema.
//
// The two policies are deliberately asymmetric. The gate is all-or-nothing:
// one bad feature rejects the whole document with aggregated reasons. The
// normalizer silently drops rows it cannot make conform and never fails a
// batch for a single bad row.
package geo

import (
	"fmt"
	"strings"
)

// MaxValidationReasons caps the reasons reported for a rejected document.
const MaxValidationReasons = 5

// RequiredProperties are the platform fields every stored feature must
// carry as non-empty strings.
var RequiredProperties = []string{"name", "description", "category", "city"}

// ValidationError aggregates the reasons a document was rejected. The
// whole document is refused; there is no partial acceptance.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid feature collection:\n" + strings.Join(e.Reasons, "\n")
}

// ValidateCollection runs the two-pass admission check over an untyped
// decoded document. Pass one checks the document structure, pass two checks
// every feature's semantics. On failure it returns a single
// *ValidationError carrying at most MaxValidationReasons reasons.
func ValidateCollection(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		return &ValidationError{Reasons: []string{"document is not a JSON object"}}
	}

	// structural pass
	if t, _ := obj["type"].(string); t != "FeatureCollection" {
		return &ValidationError{Reasons: []string{`document "type" must be "FeatureCollection"`}}
	}

	features, ok := obj["features"].([]any)
	if !ok || len(features) == 0 {
		return &ValidationError{Reasons: []string{`document must carry a non-empty "features" array`}}
	}

	// semantic pass
	reasons := make([]string, 0, MaxValidationReasons)

	for i, raw := range features {
		if len(reasons) >= MaxValidationReasons {
			break
		}

		if reason := validateFeature(i, raw); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}

	return nil
}

// validateFeature returns an empty string when the feature is admissible,
// otherwise a human-readable reason naming the feature by index and
// display name.
func validateFeature(index int, raw any) string {
	feature, ok := raw.(map[string]any)
	if !ok {
		return fmt.Sprintf("feature %d: not a JSON object", index)
	}

	name := featureDisplayName(feature)

	if t, _ := feature["type"].(string); t != "Feature" {
		return fmt.Sprintf("feature %d (%s): \"type\" must be \"Feature\"", index, name)
	}

	geometry, ok := feature["geometry"].(map[string]any)
	if !ok {
		return fmt.Sprintf("feature %d (%s): missing geometry object", index, name)
	}

	if t, _ := geometry["type"].(string); t == "" {
		return fmt.Sprintf("feature %d (%s): geometry has no type", index, name)
	}

	properties, ok := feature["properties"].(map[string]any)
	if !ok {
		return fmt.Sprintf("feature %d (%s): missing properties object", index, name)
	}

	missing := make([]string, 0, len(RequiredProperties))

	for _, field := range RequiredProperties {
		value, _ := properties[field].(string)
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Sprintf("feature %d (%s): missing required fields: %s",
			index, name, strings.Join(missing, ", "))
	}

	return ""
}

// featureDisplayName extracts the feature's name property for error
// reporting, or "unnamed" when absent.
func featureDisplayName(feature map[string]any) string {
	properties, ok := feature["properties"].(map[string]any)
	if !ok {
		return "unnamed"
	}

	name, _ := properties["name"].(string)
	if strings.TrimSpace(name) == "" {
		return "unnamed"
	}

	return name
}
