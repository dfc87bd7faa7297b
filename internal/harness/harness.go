package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/report"
	"github.com/roach88/pactum/internal/store"
	"github.com/roach88/pactum/internal/verifier"
)

// defaultRunToken keeps golden traces stable when a scenario does not
// pin its own token.
const defaultRunToken = "test-run-default"

// Result is the outcome of running one scenario.
type Result struct {
	// Run is the engine's aggregate run result.
	Run *verifier.RunResult

	// Events is the full reporter event trace, in emission order.
	Events []report.Event

	// Recorded is the history row written for this run.
	Recorded store.Run

	// Errors lists expect-clause violations. Empty means the scenario
	// passed.
	Errors []string
}

// Passed reports whether the scenario's expectations all held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with
// a fixed run token for reproducible traces.
//
// Execution flow:
//  1. Create fresh in-memory history store
//  2. Build the pact and handler registry from the scenario
//  3. Verify the pact through the real engine
//  4. Record the run in history
//  5. Evaluate the expect clause against the run result
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	pact, err := buildPact(&scenario.Pact)
	if err != nil {
		return nil, fmt.Errorf("failed to build pact: %w", err)
	}

	registry := buildRegistry(scenario.Handlers)

	rec := report.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	broadcast := report.NewBroadcast(logger, rec)

	runToken := scenario.RunToken
	if runToken == "" {
		runToken = defaultRunToken
	}

	cfg := verifier.Config{
		PublishResults:  scenario.Config.PublishResults,
		ShowStacktrace:  scenario.Config.ShowStacktrace,
		ProviderVersion: scenario.Config.ProviderVersion,
		Filter: verifier.Filter{
			Description:   scenario.Config.Filter.Description,
			ProviderState: scenario.Config.Filter.ProviderState,
		},
	}

	v := verifier.New(registry, compare.NewJSONComparator(), broadcast, cfg,
		verifier.WithRunTokens(verifier.NewFixedGenerator(runToken)),
		verifier.WithLogger(logger),
	)

	ctx := context.Background()

	runResult, err := v.VerifyPact(ctx, *pact)
	if err != nil {
		return nil, fmt.Errorf("failed to verify pact: %w", err)
	}

	run, failures, err := store.FromResult(runResult, pact.Source.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to convert run for history: %w", err)
	}
	if _, err := st.WriteRun(ctx, run, failures); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	recorded, err := st.ReadRun(ctx, runResult.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to read recorded run: %w", err)
	}

	result := &Result{
		Run:      runResult,
		Events:   rec.Events(),
		Recorded: recorded,
	}
	result.Errors = EvaluateExpectations(runResult, scenario.Expect)

	return result, nil
}

// buildPact converts the scenario's inline pact document into the
// engine's contract model. Payloads and bodies are serialized to
// canonical JSON so golden traces stay byte-stable.
func buildPact(doc *PactDoc) (*contract.Pact, error) {
	pact := &contract.Pact{
		Consumer: doc.Consumer,
		Provider: doc.Provider,
		Source:   contract.LocalSource("scenario"),
	}

	for i, id := range doc.Interactions {
		interaction, err := buildInteraction(&id)
		if err != nil {
			return nil, fmt.Errorf("interaction %d: %w", i, err)
		}
		pact.Interactions = append(pact.Interactions, *interaction)
	}

	return pact, nil
}

func buildInteraction(doc *InteractionDoc) (*contract.Interaction, error) {
	interaction := &contract.Interaction{
		Description: doc.Description,
	}

	for _, name := range doc.States {
		interaction.States = append(interaction.States, contract.ProviderState{Name: name})
	}

	switch doc.Kind {
	case "", "message":
		interaction.Kind = contract.KindMessage

		payload, err := contract.MarshalCanonical(doc.Payload)
		if err != nil {
			return nil, fmt.Errorf("payload: %w", err)
		}
		interaction.Payload = payload
		interaction.Metadata = doc.Metadata

	case "request-response", "http":
		interaction.Kind = contract.KindRequestResponse
		interaction.Request = &contract.Request{
			Method:  doc.Request.Method,
			Path:    doc.Request.Path,
			Headers: doc.Request.Headers,
		}
		resp := &contract.Response{
			Status:  doc.Response.Status,
			Headers: doc.Response.Headers,
		}
		if doc.Response.Body != nil {
			body, err := contract.MarshalCanonical(doc.Response.Body)
			if err != nil {
				return nil, fmt.Errorf("response body: %w", err)
			}
			resp.Body = body
		}
		interaction.Response = resp
	}

	return interaction, nil
}

// buildRegistry turns handler stubs into a live registry. Stub order is
// preserved per description, so multi-handler AND semantics match the
// scenario document.
func buildRegistry(stubs []HandlerStub) *verifier.Registry {
	registry := verifier.NewRegistry()
	for _, stub := range stubs {
		registry.Register(stub.Description, buildHandler(stub))
	}
	return registry
}

func buildHandler(stub HandlerStub) verifier.Handler {
	switch {
	case stub.Panic != "":
		return func(context.Context) (any, error) {
			panic(stub.Panic)
		}
	case stub.Error != "":
		return func(context.Context) (any, error) {
			return nil, errors.New(stub.Error)
		}
	case stub.Returns != nil && stub.Returns.Response != nil:
		return func(context.Context) (any, error) {
			return stub.Returns.Response, nil
		}
	default:
		return func(context.Context) (any, error) {
			payload, err := contract.MarshalCanonical(stub.Returns.Payload)
			if err != nil {
				return nil, fmt.Errorf("marshal canned payload: %w", err)
			}
			return verifier.MessageOutput{
				Payload:  payload,
				Metadata: stub.Returns.Metadata,
			}, nil
		}
	}
}
