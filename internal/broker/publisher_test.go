package broker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/pactum/internal/contract"
)

type stubClient struct {
	calls    int
	attrs    contract.BrokerAttrs
	verdict  contract.Verdict
	failWith error
}

func (s *stubClient) PublishResult(_ context.Context, attrs contract.BrokerAttrs, verdict contract.Verdict) error {
	s.calls++
	s.attrs = attrs
	s.verdict = verdict
	return s.failWith
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func brokerPact() contract.Pact {
	return contract.Pact{
		Consumer: "web-app",
		Provider: "order-service",
		Source: contract.BrokerSource(contract.BrokerAttrs{
			BaseURL: "https://broker.example.com",
			PactURL: "https://broker.example.com/pacts/web-app/order-service/latest",
		}),
	}
}

func TestPublisher_FlagUnsetNeverPublishes(t *testing.T) {
	client := &stubClient{}
	p := NewPublisher(client, "", discardLogger())

	p.Publish(context.Background(), brokerPact(), contract.Verdict{Success: true})

	assert.Equal(t, 0, client.calls)
}

func TestPublisher_FlagOtherValuesNeverPublish(t *testing.T) {
	for _, flag := range []string{"false", "1", "yes", "on", " true"} {
		client := &stubClient{}
		p := NewPublisher(client, flag, discardLogger())

		p.Publish(context.Background(), brokerPact(), contract.Verdict{Success: true})

		assert.Equal(t, 0, client.calls, "flag %q must not publish", flag)
	}
}

func TestPublisher_FlagTruePublishesOnce(t *testing.T) {
	client := &stubClient{}
	p := NewPublisher(client, "true", discardLogger())

	verdict := contract.Verdict{
		Success:         false,
		ProviderVersion: "1.4.2",
		Consumer:        "web-app",
	}
	p.Publish(context.Background(), brokerPact(), verdict)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, verdict, client.verdict)
	assert.Equal(t, "https://broker.example.com", client.attrs.BaseURL)
}

func TestPublisher_FlagCaseInsensitive(t *testing.T) {
	for _, flag := range []string{"true", "TRUE", "True", "tRuE"} {
		client := &stubClient{}
		p := NewPublisher(client, flag, discardLogger())

		p.Publish(context.Background(), brokerPact(), contract.Verdict{Success: true})

		assert.Equal(t, 1, client.calls, "flag %q must publish", flag)
	}
}

func TestPublisher_LocalPactNeverPublishes(t *testing.T) {
	client := &stubClient{}
	p := NewPublisher(client, "true", discardLogger())

	pact := contract.Pact{
		Consumer: "web-app",
		Provider: "order-service",
		Source:   contract.LocalSource("pacts/web-app-order-service.json"),
	}
	p.Publish(context.Background(), pact, contract.Verdict{Success: true})

	assert.Equal(t, 0, client.calls)
}

func TestPublisher_UnknownProvenanceNeverPublishes(t *testing.T) {
	client := &stubClient{}
	p := NewPublisher(client, "true", discardLogger())

	pact := contract.Pact{Consumer: "web-app", Provider: "order-service"}
	p.Publish(context.Background(), pact, contract.Verdict{Success: true})

	assert.Equal(t, 0, client.calls)
}

func TestPublisher_SendFailureIsSwallowed(t *testing.T) {
	client := &stubClient{failWith: errors.New("registry unreachable")}
	p := NewPublisher(client, "true", discardLogger())

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), brokerPact(), contract.Verdict{Success: true})
	})
	assert.Equal(t, 1, client.calls)
}
