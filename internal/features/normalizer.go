// Package features derives the categorical columns the fitted preprocessing
// pipeline expects but raw client payloads usually omit.
package features

import (
	"encoding/json"
	"strconv"
)

// Unknown is the bin used when a source value is not numeric.
const Unknown = "unknown"

// Normalize returns a copy of raw with the derived columns filled in. A
// derived column is only computed when its source exists and the target does
// not, so callers that already send age_group/bp_cat/chol_cat keep their
// own values.
func Normalize(raw map[string]any) map[string]any {
	row := make(map[string]any, len(raw)+4)
	for k, v := range raw {
		row[k] = v
	}

	// The fitted pipeline was trained on a column misspelled "thalch".
	if v, ok := row["thalach"]; ok {
		if _, present := row["thalch"]; !present {
			row["thalch"] = v
		}
	}

	if v, ok := row["age"]; ok {
		if _, present := row["age_group"]; !present {
			row["age_group"] = AgeGroup(v)
		}
	}
	if v, ok := row["trestbps"]; ok {
		if _, present := row["bp_cat"]; !present {
			row["bp_cat"] = BPCategory(v)
		}
	}
	if v, ok := row["chol"]; ok {
		if _, present := row["chol_cat"]; !present {
			row["chol_cat"] = CholCategory(v)
		}
	}

	return row
}

// AgeGroup bins an age value the same way the training pipeline did.
func AgeGroup(v any) string {
	age, ok := toFloat(v)
	if !ok {
		return Unknown
	}
	switch {
	case age < 31:
		return "0-30"
	case age < 46:
		return "31-45"
	case age < 61:
		return "46-60"
	default:
		return "61+"
	}
}

// BPCategory bins resting blood pressure (trestbps, mm Hg).
func BPCategory(v any) string {
	bp, ok := toFloat(v)
	if !ok {
		return Unknown
	}
	switch {
	case bp < 120:
		return "normal"
	case bp < 130:
		return "elevated"
	case bp < 140:
		return "hypertension1"
	default:
		return "hypertension2"
	}
}

// CholCategory bins serum cholesterol (chol, mg/dl).
func CholCategory(v any) string {
	chol, ok := toFloat(v)
	if !ok {
		return Unknown
	}
	switch {
	case chol < 200:
		return "normal"
	case chol < 240:
		return "borderline"
	default:
		return "high"
	}
}

// toFloat coerces the numeric shapes a JSON payload can carry.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
