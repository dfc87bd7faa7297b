package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pactum/internal/contract"
)

func TestFilter_ZeroValueMatchesEverything(t *testing.T) {
	f := Filter{}

	assert.True(t, f.MatchesPact(contract.Pact{Consumer: "anyone"}))
	assert.True(t, f.MatchesInteraction(contract.Interaction{Description: "anything"}))
}

func TestFilter_ConsumerExactMatch(t *testing.T) {
	f := Filter{Consumer: "web-app"}

	assert.True(t, f.MatchesPact(contract.Pact{Consumer: "web-app"}))
	assert.False(t, f.MatchesPact(contract.Pact{Consumer: "mobile-app"}))
}

func TestFilter_DescriptionSubstring(t *testing.T) {
	f := Filter{Description: "order"}

	assert.True(t, f.MatchesInteraction(contract.Interaction{Description: "an order created event"}))
	assert.False(t, f.MatchesInteraction(contract.Interaction{Description: "a refund issued event"}))
}

func TestFilter_ProviderStateExactName(t *testing.T) {
	f := Filter{ProviderState: "an order exists"}

	withState := contract.Interaction{
		Description: "a request for an order",
		States:      []contract.ProviderState{{Name: "an order exists"}},
	}
	otherState := contract.Interaction{
		Description: "a request for an order",
		States:      []contract.ProviderState{{Name: "no orders exist"}},
	}
	noStates := contract.Interaction{Description: "a request for an order"}

	assert.True(t, f.MatchesInteraction(withState))
	assert.False(t, f.MatchesInteraction(otherState))
	assert.False(t, f.MatchesInteraction(noStates))
}

func TestFilter_CombinedPredicates(t *testing.T) {
	f := Filter{Description: "order", ProviderState: "an order exists"}

	match := contract.Interaction{
		Description: "a request for an order",
		States:      []contract.ProviderState{{Name: "an order exists"}},
	}
	wrongDescription := contract.Interaction{
		Description: "a refund issued event",
		States:      []contract.ProviderState{{Name: "an order exists"}},
	}

	assert.True(t, f.MatchesInteraction(match))
	assert.False(t, f.MatchesInteraction(wrongDescription))
}
