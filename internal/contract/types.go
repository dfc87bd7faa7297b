package contract

import "golang.org/x/text/unicode/norm"

// Kind discriminates the interaction variants.
type Kind int

const (
	// KindRequestResponse is a synchronous HTTP-style exchange.
	KindRequestResponse Kind = iota
	// KindMessage is an asynchronous message the provider emits.
	KindMessage
)

// String returns the kind name used in traces and logs.
func (k Kind) String() string {
	switch k {
	case KindRequestResponse:
		return "request-response"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ProviderState is a named precondition the provider must be placed into
// before an interaction is exercised, and reverted from after. State
// changes are executed by an external collaborator; the model only
// carries name and parameters.
type ProviderState struct {
	Name   string         `json:"name" yaml:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Request is the expected request half of a request/response interaction.
type Request struct {
	Method  string            `json:"method" yaml:"method"`
	Path    string            `json:"path" yaml:"path"`
	Query   map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty" yaml:"body,omitempty"`
}

// Response is the expected response half of a request/response interaction.
type Response struct {
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty" yaml:"body,omitempty"`
}

// Interaction is one expected exchange recorded in a pact.
//
// Description is the matching key used for handler resolution. It is NOT
// guaranteed globally unique: several handlers may be registered against
// the same description, and verification requires ALL of them to pass.
//
// Exactly one variant is populated, selected by Kind:
//   - KindRequestResponse: Request and Response
//   - KindMessage: Payload and Metadata
type Interaction struct {
	Description string          `json:"description" yaml:"description"`
	Kind        Kind            `json:"kind" yaml:"kind"`
	States      []ProviderState `json:"provider_states,omitempty" yaml:"provider_states,omitempty"`

	Request  *Request  `json:"request,omitempty" yaml:"request,omitempty"`
	Response *Response `json:"response,omitempty" yaml:"response,omitempty"`

	Payload  []byte         `json:"payload,omitempty" yaml:"payload,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Pact is a recorded contract between one consumer and one provider.
// The interaction order is the verification order.
type Pact struct {
	Consumer     string        `json:"consumer" yaml:"consumer"`
	Provider     string        `json:"provider" yaml:"provider"`
	Interactions []Interaction `json:"interactions" yaml:"interactions"`
	Source       Source        `json:"source" yaml:"source"`
}

// Verdict is the aggregate result of verifying an entire pact.
// Constructed once per pact at end of run; immutable; handed to the
// result publisher.
type Verdict struct {
	Success         bool   `json:"success"`
	ProviderVersion string `json:"provider_version"`
	Consumer        string `json:"consumer"`
}

// NormalizeDescription returns the NFC-normalized form of an interaction
// description. Registry lookups and interaction matching go through this
// so that Unicode-equivalent descriptions resolve to the same handlers.
// Matching stays exact and case-sensitive otherwise.
func NormalizeDescription(s string) string {
	return norm.NFC.String(s)
}
