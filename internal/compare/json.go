package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONComparator is the default structural comparator.
//
// Payloads that parse as JSON are compared structurally: object fields
// by name, arrays by index, scalars by value. Mismatch paths use dotted
// field notation with bracketed array indices ("order.items[2].sku");
// the root is "$".
//
// Payloads that are not valid JSON fall back to exact byte comparison,
// reported at the root path.
type JSONComparator struct{}

// NewJSONComparator creates the default comparator.
func NewJSONComparator() *JSONComparator {
	return &JSONComparator{}
}

// Compare structurally compares two payloads.
// Deterministic: identical inputs always produce identical diffs.
func (c *JSONComparator) Compare(expected, actual []byte) (Diff, error) {
	expVal, expOK := decodeJSON(expected)
	actVal, actOK := decodeJSON(actual)

	// Non-JSON on either side degrades to byte comparison.
	if !expOK || !actOK {
		if bytes.Equal(expected, actual) {
			return Diff{}, nil
		}
		return Diff{"$": Mismatch{
			Expected: string(expected),
			Actual:   string(actual),
			Message:  "payloads differ",
		}}, nil
	}

	diff := Diff{}
	compareValues("$", expVal, actVal, diff)
	return diff, nil
}

// CompareMetadata compares metadata key by key.
// Returns one entry per expected key; nil Diff means that key matched.
// Keys only present in the actual metadata are not mismatches.
func (c *JSONComparator) CompareMetadata(expected, actual map[string]any) (map[string]Diff, error) {
	result := make(map[string]Diff, len(expected))

	for key, expVal := range expected {
		actVal, exists := actual[key]
		if !exists {
			result[key] = Diff{key: Mismatch{
				Expected: expVal,
				Actual:   nil,
				Message:  fmt.Sprintf("metadata key %q is missing", key),
			}}
			continue
		}

		diff := Diff{}
		compareValues(key, normalizeScalar(expVal), normalizeScalar(actVal), diff)
		if diff.Empty() {
			result[key] = nil
		} else {
			result[key] = diff
		}
	}

	return result, nil
}

// decodeJSON parses raw bytes into a generic JSON value.
// Numbers decode as json.Number so integer payloads are not subject to
// float64 rounding during comparison.
func decodeJSON(raw []byte) (any, bool) {
	if !json.Valid(raw) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// compareValues walks expected and actual in lockstep, recording every
// disagreement under its field path.
func compareValues(path string, expected, actual any, diff Diff) {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			diff[path] = Mismatch{
				Expected: expected,
				Actual:   actual,
				Message:  fmt.Sprintf("expected an object, got %s", jsonTypeName(actual)),
			}
			return
		}
		for key, expField := range exp {
			fieldPath := joinPath(path, key)
			actField, exists := act[key]
			if !exists {
				diff[fieldPath] = Mismatch{
					Expected: expField,
					Actual:   nil,
					Message:  fmt.Sprintf("field %q is missing", key),
				}
				continue
			}
			compareValues(fieldPath, expField, actField, diff)
		}
		for key, actField := range act {
			if _, exists := exp[key]; !exists {
				fieldPath := joinPath(path, key)
				diff[fieldPath] = Mismatch{
					Expected: nil,
					Actual:   actField,
					Message:  fmt.Sprintf("unexpected field %q", key),
				}
			}
		}

	case []any:
		act, ok := actual.([]any)
		if !ok {
			diff[path] = Mismatch{
				Expected: expected,
				Actual:   actual,
				Message:  fmt.Sprintf("expected an array, got %s", jsonTypeName(actual)),
			}
			return
		}
		if len(exp) != len(act) {
			diff[path] = Mismatch{
				Expected: len(exp),
				Actual:   len(act),
				Message:  fmt.Sprintf("expected %d elements, got %d", len(exp), len(act)),
			}
			return
		}
		for i := range exp {
			compareValues(fmt.Sprintf("%s[%d]", path, i), exp[i], act[i], diff)
		}

	default:
		if !scalarsEqual(expected, actual) {
			diff[path] = Mismatch{
				Expected: expected,
				Actual:   actual,
				Message:  "values differ",
			}
		}
	}
}

// scalarsEqual compares JSON scalar values (string, json.Number, bool,
// nil). Numbers compare by their canonical decimal text.
func scalarsEqual(expected, actual any) bool {
	expNum, expIsNum := expected.(json.Number)
	actNum, actIsNum := actual.(json.Number)
	if expIsNum && actIsNum {
		return expNum.String() == actNum.String()
	}
	return expected == actual
}

// normalizeScalar coerces native Go values into the shapes decodeJSON
// produces, so metadata supplied as typed Go values compares against
// JSON-decoded actuals.
func normalizeScalar(v any) any {
	switch n := v.(type) {
	case int:
		return json.Number(fmt.Sprintf("%d", n))
	case int64:
		return json.Number(fmt.Sprintf("%d", n))
	case float64:
		if n == float64(int64(n)) {
			return json.Number(fmt.Sprintf("%d", int64(n)))
		}
		return json.Number(fmt.Sprintf("%v", n))
	default:
		return v
	}
}

// joinPath appends a field name to a path, treating "$" as the bare root.
func joinPath(path, key string) string {
	if path == "$" {
		return key
	}
	return path + "." + key
}

// jsonTypeName names a decoded JSON value's type for mismatch messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case []byte, string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
