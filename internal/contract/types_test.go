package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "request-response", KindRequestResponse.String())
	assert.Equal(t, "message", KindMessage.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestSourceKindString(t *testing.T) {
	assert.Equal(t, "local", SourceLocal.String())
	assert.Equal(t, "broker", SourceBroker.String())
	assert.Equal(t, "unknown", SourceUnknown.String())
}

func TestNormalizeDescription_NFCEquivalence(t *testing.T) {
	// U+00E9 (precomposed) vs "e" + U+0301 (combining acute) must
	// normalize to the same registry key.
	composed := "caf\u00e9 order created"
	decomposed := "cafe\u0301 order created"

	assert.Equal(t, NormalizeDescription(composed), NormalizeDescription(decomposed))
}

func TestNormalizeDescription_CaseSensitive(t *testing.T) {
	// Normalization must not fold case - matching is case-sensitive.
	assert.NotEqual(t, NormalizeDescription("Order Created"), NormalizeDescription("order created"))
}

func TestLocalSource(t *testing.T) {
	src := LocalSource("pacts/consumer-provider.json")

	assert.Equal(t, SourceLocal, src.Kind)
	assert.Equal(t, "pacts/consumer-provider.json", src.Path)
	assert.Nil(t, src.Broker)
}

func TestBrokerSource(t *testing.T) {
	src := BrokerSource(BrokerAttrs{
		BaseURL:    "https://broker.example.com",
		PublishURL: "https://broker.example.com/publish",
	})

	assert.Equal(t, SourceBroker, src.Kind)
	assert.NotNil(t, src.Broker)
	assert.Equal(t, "https://broker.example.com", src.Broker.BaseURL)
}
