package verifier

import (
	"strings"

	"github.com/roach88/pactum/internal/contract"
)

// Filter restricts which pacts and interactions are verified. Zero-value
// fields are pass-through: an empty filter matches everything.
//
// Filters are predicates only - they never alter verification semantics
// for the interactions they admit.
type Filter struct {
	// Consumer, when set, admits only pacts recorded by this consumer
	// (exact match).
	Consumer string
	// Description, when set, admits only interactions whose description
	// contains this substring.
	Description string
	// ProviderState, when set, admits only interactions carrying a
	// provider state with this exact name.
	ProviderState string
}

// MatchesPact reports whether the pact's consumer passes the filter.
func (f Filter) MatchesPact(pact contract.Pact) bool {
	return f.Consumer == "" || f.Consumer == pact.Consumer
}

// MatchesInteraction reports whether the interaction passes the
// description and provider-state filters.
func (f Filter) MatchesInteraction(interaction contract.Interaction) bool {
	if f.Description != "" && !strings.Contains(interaction.Description, f.Description) {
		return false
	}

	if f.ProviderState != "" {
		for _, state := range interaction.States {
			if state.Name == f.ProviderState {
				return true
			}
		}
		return false
	}

	return true
}
