package broker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/pactum/internal/contract"
)

// Publisher is the gated, best-effort verdict publisher wired into the
// verification engine.
//
// Two independent gates must both open before anything is sent:
//
//  1. Provenance: the pact must have been fetched from a registry
//     (contract.SourceBroker). Locally loaded pacts never publish, even
//     when the flag is set.
//  2. Operator intent: the publish flag must resolve to the exact
//     case-insensitive string "true". Absent or any other value means
//     no publication.
//
// Publish never returns an error and never panics its caller: a failed
// send is logged with its cause and the run's verdict stands unchanged.
type Publisher struct {
	client      Client
	publishFlag string
	logger      *slog.Logger
}

// NewPublisher creates a Publisher. publishFlag is the raw operator
// setting; it is interpreted here, not by the caller.
func NewPublisher(client Client, publishFlag string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:      client,
		publishFlag: publishFlag,
		logger:      logger,
	}
}

// Enabled reports whether the operator asked for publication.
func (p *Publisher) Enabled() bool {
	return strings.EqualFold(p.publishFlag, "true")
}

// Publish sends the verdict if both gates pass. Best-effort: errors are
// logged, never returned.
func (p *Publisher) Publish(ctx context.Context, pact contract.Pact, verdict contract.Verdict) {
	if !p.Enabled() {
		p.logger.Debug("verdict publication disabled",
			"consumer", pact.Consumer,
			"flag", p.publishFlag,
		)
		return
	}

	if pact.Source.Kind != contract.SourceBroker || pact.Source.Broker == nil {
		p.logger.Debug("verdict publication skipped for non-registry pact",
			"consumer", pact.Consumer,
			"source", pact.Source.Kind.String(),
		)
		return
	}

	if err := p.client.PublishResult(ctx, *pact.Source.Broker, verdict); err != nil {
		p.logger.Error("verdict publication failed",
			"consumer", pact.Consumer,
			"provider_version", verdict.ProviderVersion,
			"error", err,
		)
		return
	}

	p.logger.Info("verdict published",
		"consumer", pact.Consumer,
		"provider_version", verdict.ProviderVersion,
		"success", verdict.Success,
	)
}
