package contract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// MarshalCanonical produces RFC 8785 canonical JSON for a Go value.
// CRITICAL: this is the only serialization used for content-addressed
// identity computation and for canonical payload comparison.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted per RFC 8785 (UTF-16 code unit order)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Number formatting follows ECMAScript rules
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // < > & must survive canonicalization
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal canonical: %w", err)
	}

	canonical, err := jcs.Transform(bytes.TrimRight(buf.Bytes(), "\n"))
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return canonical, nil
}

// CanonicalizeJSON transforms raw JSON text into its RFC 8785 canonical
// form. Returns an error if the input is not valid JSON; callers decide
// whether to fall back to byte comparison.
func CanonicalizeJSON(raw []byte) ([]byte, error) {
	if !json.Valid(raw) {
		return nil, fmt.Errorf("canonicalize: input is not valid JSON")
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return canonical, nil
}
