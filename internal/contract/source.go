package contract

// SourceKind discriminates where a pact was loaded from.
type SourceKind int

const (
	// SourceUnknown is the zero value: provenance was not recorded.
	SourceUnknown SourceKind = iota
	// SourceLocal means the pact was read from a local file.
	SourceLocal
	// SourceBroker means the pact was fetched from a remote contract
	// registry (broker). Only broker-sourced pacts are eligible for
	// verdict publication.
	SourceBroker
)

// String returns the source kind name used in logs.
func (k SourceKind) String() string {
	switch k {
	case SourceLocal:
		return "local"
	case SourceBroker:
		return "broker"
	default:
		return "unknown"
	}
}

// BrokerAttrs captures the registry attributes recorded at load time.
// The publisher uses these verbatim when sending the verdict.
//
// Authentication options are intentionally absent: auth flows to the
// registry are handled by the transport layer that fetched the pact.
type BrokerAttrs struct {
	// BaseURL is the broker root, e.g. "https://broker.example.com".
	BaseURL string `json:"base_url" yaml:"base_url"`
	// PublishURL is the verification-results endpoint for this pact.
	// When empty, the publisher derives it from BaseURL.
	PublishURL string `json:"publish_url,omitempty" yaml:"publish_url,omitempty"`
	// PactURL is the URL the pact itself was fetched from.
	PactURL string `json:"pact_url,omitempty" yaml:"pact_url,omitempty"`
}

// Source is the tagged provenance variant of a pact.
//
// Exactly one of Path (SourceLocal) or Broker (SourceBroker) is populated,
// selected by Kind. SourceUnknown carries neither.
type Source struct {
	Kind   SourceKind   `json:"kind" yaml:"kind"`
	Path   string       `json:"path,omitempty" yaml:"path,omitempty"`
	Broker *BrokerAttrs `json:"broker,omitempty" yaml:"broker,omitempty"`
}

// LocalSource builds provenance for a pact read from a file.
func LocalSource(path string) Source {
	return Source{Kind: SourceLocal, Path: path}
}

// BrokerSource builds provenance for a pact fetched from a registry.
func BrokerSource(attrs BrokerAttrs) Source {
	return Source{Kind: SourceBroker, Broker: &attrs}
}
