package verifier

import "fmt"

// MessageOutput is the wrapper shape a handler returns when it wants to
// carry explicit payload bytes and a metadata mapping.
type MessageOutput struct {
	Payload  []byte
	Metadata map[string]any
}

// Pair is the two-element ordered pair shape: the first element's
// textual form becomes the payload, the second element is the metadata.
type Pair struct {
	First  any
	Second map[string]any
}

// pairLike adapts foreign two-element pair types with equivalent
// left/right fields. Any type exposing these accessors is treated the
// same as Pair.
type pairLike interface {
	GetFirst() any
	GetSecond() map[string]any
}

// NormalizedOutput is the canonical shape every handler return value is
// reduced to before comparison. The engine never compares raw handler
// output directly.
type NormalizedOutput struct {
	Payload  []byte
	Metadata map[string]any
}

// Normalize reduces a raw handler return value to NormalizedOutput.
//
// Recognized shapes, checked in this precedence order:
//  1. MessageOutput (value or pointer) - payload and metadata used as-is
//  2. Pair (value or pointer) - first element's textual form + metadata
//  3. a foreign pair-like type - same treatment as Pair
//  4. fallback - the value's textual representation, empty metadata
//
// The precedence is load-bearing: wrapper shapes carrying explicit
// metadata must never be degraded to the textual fallback.
func Normalize(raw any) NormalizedOutput {
	switch v := raw.(type) {
	case MessageOutput:
		return NormalizedOutput{Payload: v.Payload, Metadata: v.Metadata}
	case *MessageOutput:
		if v != nil {
			return NormalizedOutput{Payload: v.Payload, Metadata: v.Metadata}
		}
	case Pair:
		return NormalizedOutput{Payload: textual(v.First), Metadata: v.Second}
	case *Pair:
		if v != nil {
			return NormalizedOutput{Payload: textual(v.First), Metadata: v.Second}
		}
	}

	if p, ok := raw.(pairLike); ok {
		return NormalizedOutput{Payload: textual(p.GetFirst()), Metadata: p.GetSecond()}
	}

	return NormalizedOutput{Payload: textual(raw)}
}

// textual renders a value as payload bytes. Byte slices and strings pass
// through unchanged; everything else takes its fmt representation.
func textual(v any) []byte {
	switch s := v.(type) {
	case nil:
		return nil
	case []byte:
		return s
	case string:
		return []byte(s)
	case fmt.Stringer:
		return []byte(s.String())
	default:
		return fmt.Appendf(nil, "%v", v)
	}
}
