package plan

import (
	"github.com/roach88/pactum/internal/contract"
)

// Plan is a compiled verification plan.
type Plan struct {
	// Provider is the name of the provider under verification.
	Provider string

	// ProviderVersion is the version the verdict is recorded against.
	ProviderVersion string

	// PublishResults is the raw publish flag. Only the case-insensitive
	// string "true" enables publication.
	PublishResults string

	// ShowStacktrace includes error detail in verification-error output.
	ShowStacktrace bool

	// Filter restricts which pacts and interactions are verified.
	Filter Filter

	// Broker carries registry attributes when pacts came from a
	// registry. Nil for purely local plans.
	Broker *contract.BrokerAttrs

	// Pacts are the contracts to verify, in plan order.
	Pacts []contract.Pact
}

// Filter mirrors the plan's filter block.
type Filter struct {
	Consumer      string
	Description   string
	ProviderState string
}
