package verifier

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/report"
)

// Config is the explicit verifier configuration. All behavior toggles
// are carried here; the engine performs no ambient flag lookups.
type Config struct {
	// PublishResults enables verdict publication only when it resolves
	// to the exact case-insensitive string "true". Any other value,
	// including empty (the default), disables publication. The
	// asymmetric default deliberately favors no side effects.
	PublishResults string

	// ShowStacktrace gates whether verification-error reporter events
	// include error detail beyond the message.
	ShowStacktrace bool

	// ProviderVersion is the provider version the verdict is recorded
	// against.
	ProviderVersion string

	// Filter restricts which interactions are verified.
	Filter Filter
}

// PublishEnabled reports whether the publish-results flag resolves to
// "true" (case-insensitive).
func (c Config) PublishEnabled() bool {
	return strings.EqualFold(c.PublishResults, "true")
}

// ResultPublisher receives the aggregate verdict once per pact at end of
// run. Implementations must be best-effort: they log failures internally
// and never propagate them into the verification outcome.
type ResultPublisher interface {
	Publish(ctx context.Context, pact contract.Pact, verdict contract.Verdict)
}

// RunResult is the aggregate outcome of verifying one pact.
type RunResult struct {
	RunID           string              `json:"run_id"`
	Consumer        string              `json:"consumer"`
	Provider        string              `json:"provider"`
	ProviderVersion string              `json:"provider_version"`
	Success         bool                `json:"success"`
	Interactions    []InteractionResult `json:"interactions"`
	Ledger          Ledger              `json:"ledger,omitempty"`
}

// Verdict builds the immutable verification verdict handed to the
// result publisher.
func (r *RunResult) Verdict() contract.Verdict {
	return contract.Verdict{
		Success:         r.Success,
		ProviderVersion: r.ProviderVersion,
		Consumer:        r.Consumer,
	}
}

// Verifier orchestrates verification of a pact's interactions.
//
// Interactions are processed strictly one at a time in contract order;
// no interaction's processing overlaps another's. The only network-bound
// operation is the end-of-run publish call, also synchronous.
type Verifier struct {
	resolver   Resolver
	comparator compare.Comparator
	reporter   *report.Broadcast
	publisher  ResultPublisher
	tokens     RunTokenGenerator
	clock      *Clock
	config     Config
	logger     *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithPublisher attaches a result publisher. Without one, no verdict is
// sent regardless of configuration.
func WithPublisher(p ResultPublisher) Option {
	return func(v *Verifier) { v.publisher = p }
}

// WithRunTokens replaces the run token generator.
// Use FixedGenerator in tests for deterministic run IDs.
func WithRunTokens(g RunTokenGenerator) Option {
	return func(v *Verifier) { v.tokens = g }
}

// WithLogger replaces the logger. Tests pass a discard handler.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// New creates a Verifier with the given collaborators and configuration.
func New(resolver Resolver, comparator compare.Comparator, reporter *report.Broadcast, cfg Config, opts ...Option) *Verifier {
	v := &Verifier{
		resolver:   resolver,
		comparator: comparator,
		reporter:   reporter,
		tokens:     UUIDv7Generator{},
		clock:      NewClock(),
		config:     cfg,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// VerifyPact verifies every interaction of the pact and returns the
// aggregate result.
//
// The pact's interaction list is never mutated. Per-interaction failures
// (no handler, handler error, comparison mismatch, even a panic) are
// confined to that interaction's result; the run always proceeds to the
// next interaction. The only fatal error is a Resolver failure - a
// search space that cannot be constructed must surface to the caller,
// never be treated as silently empty.
//
// After all interactions: the verdict is handed to the publisher (if
// any), then every reporter is finalized exactly once.
func (v *Verifier) VerifyPact(ctx context.Context, pact contract.Pact) (*RunResult, error) {
	result := &RunResult{
		RunID:           v.tokens.Generate(),
		Consumer:        pact.Consumer,
		Provider:        pact.Provider,
		ProviderVersion: v.config.ProviderVersion,
		Success:         true,
		Ledger:          Ledger{},
	}

	v.logger.Info("verification run starting",
		"run_id", result.RunID,
		"consumer", pact.Consumer,
		"provider", pact.Provider,
		"interactions", len(pact.Interactions),
	)

	for _, interaction := range pact.Interactions {
		if !v.config.Filter.MatchesInteraction(interaction) {
			v.logger.Debug("interaction filtered out",
				"description", interaction.Description,
			)
			continue
		}

		handlers, err := v.resolver.Resolve(interaction)
		if err != nil {
			v.reporter.FinalizeReport()
			return nil, fmt.Errorf("resolve handlers for %q: %w", interaction.Description, err)
		}

		res := v.verifyInteraction(ctx, pact, interaction, handlers)
		result.Interactions = append(result.Interactions, res)
		result.Ledger.Merge(res.Failures)
		if !res.Passed {
			result.Success = false
		}

		v.logger.Debug("interaction recorded",
			"description", interaction.Description,
			"passed", res.Passed,
			"seq", res.Seq,
		)
	}

	if v.publisher != nil {
		v.publisher.Publish(ctx, pact, result.Verdict())
	}

	v.reporter.FinalizeReport()

	v.logger.Info("verification run finished",
		"run_id", result.RunID,
		"success", result.Success,
		"failures", len(result.Ledger),
	)

	return result, nil
}

// verifyInteraction runs one interaction through its states:
// Resolving → Invoking → Normalizing → Comparing → Recorded.
//
// The interaction's overall pass/fail is the logical AND of every
// resolved handler's outcome. Zero resolved handlers is a hard failure,
// not a vacuous pass. A panic anywhere inside handler invocation or
// comparison is caught here and recorded as a verification error.
func (v *Verifier) verifyInteraction(ctx context.Context, pact contract.Pact, interaction contract.Interaction, handlers []Handler) (res InteractionResult) {
	id, err := contract.InteractionID(pact.Consumer, pact.Provider, interaction.Description)
	if err != nil {
		// Identity is diagnostic only - verification proceeds without it.
		v.logger.Warn("interaction ID computation failed",
			"description", interaction.Description,
			"error", err,
		)
	}

	res = InteractionResult{
		InteractionID: id,
		Description:   interaction.Description,
		Seq:           v.clock.Next(),
		Passed:        true,
	}

	defer func() {
		if rec := recover(); rec != nil {
			panicErr := fmt.Errorf("panic during verification: %v", rec)
			v.reporter.VerificationError(interaction, panicErr, v.config.ShowStacktrace)
			res.fail(interactionContext(interaction), FailureDetail{Error: panicErr.Error()})
		}
	}()

	if len(handlers) == 0 {
		v.reporter.NoHandlerFound(interaction)
		res.fail(interactionContext(interaction), FailureDetail{
			Error: fmt.Sprintf("no handler found matching description %q", interaction.Description),
		})
		return res
	}

	for _, h := range handlers {
		switch interaction.Kind {
		case contract.KindMessage:
			v.verifyMessageHandler(ctx, interaction, h, &res)
		case contract.KindRequestResponse:
			v.verifyRequestResponseHandler(ctx, interaction, h, &res)
		default:
			v.recordError(interaction, fmt.Errorf("unknown interaction kind: %d", interaction.Kind), &res)
		}
	}

	return res
}

// recordError records an invocation/comparison error at the interaction
// boundary: reported via the verification-error event (detail gated by
// ShowStacktrace) and recorded in the ledger keyed by the interaction's
// context.
func (v *Verifier) recordError(interaction contract.Interaction, err error, res *InteractionResult) {
	v.reporter.VerificationError(interaction, err, v.config.ShowStacktrace)
	res.fail(interactionContext(interaction), FailureDetail{Error: err.Error()})
}

// sortedDiffKeys returns metadata/header diff keys in lexical order so
// reporter events and ledger entries are deterministic.
func sortedDiffKeys(diffs map[string]compare.Diff) []string {
	keys := make([]string, 0, len(diffs))
	for k := range diffs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
