// Package compare defines the structural matching boundary used by the
// verifier, plus the default JSON comparator.
//
// The verifier treats comparison as a black box: it hands over expected
// and actual values and receives a Diff per field path. An empty Diff is
// the universal "matched" sentinel used throughout the engine.
package compare

import "sort"

// Mismatch describes one point of disagreement between expected and
// actual values.
type Mismatch struct {
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Message  string `json:"message"`
}

// Diff maps a field path (e.g. "a", "order.items[2].sku", "$") to its
// mismatch detail. An empty (or nil) Diff means the values matched.
type Diff map[string]Mismatch

// Empty reports whether the comparison found no mismatches.
func (d Diff) Empty() bool {
	return len(d) == 0
}

// SortedPaths returns the mismatch paths in lexical order for
// deterministic reporting.
func (d Diff) SortedPaths() []string {
	paths := make([]string, 0, len(d))
	for p := range d {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Comparator is the matching collaborator boundary.
//
// Compare evaluates a payload; CompareMetadata evaluates a metadata
// mapping and returns one entry per EXPECTED key, where a nil Diff means
// that key matched. Keys present only in the actual metadata are ignored:
// a contract constrains what must be there, not what else may be.
//
// Implementations must be deterministic: comparing the same pair twice
// yields the same Diff.
type Comparator interface {
	Compare(expected, actual []byte) (Diff, error)
	CompareMetadata(expected, actual map[string]any) (map[string]Diff, error)
}
