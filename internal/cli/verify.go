package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pactum/internal/broker"
	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/provider"
	"github.com/roach88/pactum/internal/report"
	"github.com/roach88/pactum/internal/store"
	"github.com/roach88/pactum/internal/verifier"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	BaseURL         string // provider base URL (required)
	MessageEndpoint string // message endpoint path
	DBPath          string // history database, empty disables recording
	Publish         string // overrides the plan's publish flag when set
	ProviderVersion string // overrides the plan's provider version when set
}

// PactVerdict is one pact's outcome in the verify summary.
type PactVerdict struct {
	Consumer string   `json:"consumer"`
	RunID    string   `json:"run_id"`
	Success  bool     `json:"success"`
	Failures []string `json:"failures,omitempty"`
}

// VerifySummary is the overall verify result.
type VerifySummary struct {
	Provider string        `json:"provider"`
	Pacts    []PactVerdict `json:"pacts"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <plan-dir>",
		Short: "Verify a provider against its pacts",
		Long: `Verify a running provider against the pacts in a verification plan.

Request/response interactions are replayed as HTTP requests against the
provider. Message interactions are requested from the provider's message
endpoint by description.

Verdicts are published to the contract registry only when the plan was
loaded from a registry AND the publish flag resolves to "true".

Exit codes:
  0 - All interactions passed
  1 - One or more interactions failed
  2 - Command error (invalid plan, unreachable configuration, etc.)

Examples:
  pactum verify ./plan --base-url http://localhost:8080
  pactum verify ./plan --base-url http://localhost:8080 --db ./history.db
  pactum verify ./plan --base-url http://localhost:8080 --publish true`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "provider base URL (required)")
	cmd.Flags().StringVar(&opts.MessageEndpoint, "message-endpoint", "", "message endpoint path (default /_pact/messages)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record runs in this history database")
	cmd.Flags().StringVar(&opts.Publish, "publish", "", "override the plan's publish_results flag")
	cmd.Flags().StringVar(&opts.ProviderVersion, "provider-version", "", "override the plan's provider version")
	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}

func runVerify(opts *VerifyOptions, planDir string, cmd *cobra.Command) error {
	loaded, err := LoadPlan(planDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	p := loaded.Plan

	resolverOpts := []provider.ResolverOption{}
	if opts.MessageEndpoint != "" {
		resolverOpts = append(resolverOpts, provider.WithMessageEndpoint(opts.MessageEndpoint))
	}
	resolver, err := provider.NewHTTPResolver(opts.BaseURL, resolverOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid provider configuration", err)
	}

	var st *store.Store
	if opts.DBPath != "" {
		st, err = store.Open(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer st.Close()
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	publishFlag := p.PublishResults
	if opts.Publish != "" {
		publishFlag = opts.Publish
	}
	providerVersion := p.ProviderVersion
	if opts.ProviderVersion != "" {
		providerVersion = opts.ProviderVersion
	}

	cfg := verifier.Config{
		PublishResults:  publishFlag,
		ShowStacktrace:  p.ShowStacktrace,
		ProviderVersion: providerVersion,
		Filter: verifier.Filter{
			Consumer:      p.Filter.Consumer,
			Description:   p.Filter.Description,
			ProviderState: p.Filter.ProviderState,
		},
	}

	verifierOpts := []verifier.Option{verifier.WithLogger(logger)}
	if p.Broker != nil {
		publisher := broker.NewPublisher(broker.NewHTTPClient(), publishFlag, logger)
		verifierOpts = append(verifierOpts, verifier.WithPublisher(publisher))
	}

	summary := VerifySummary{Provider: p.Provider}

	for _, pact := range p.Pacts {
		if !cfg.Filter.MatchesPact(pact) {
			logger.Debug("pact filtered out", "consumer", pact.Consumer)
			continue
		}

		reporters := []report.Reporter{report.NewConsole(cmd.OutOrStdout())}
		v := verifier.New(resolver, compare.NewJSONComparator(),
			report.NewBroadcast(logger, reporters...), cfg, verifierOpts...)

		result, err := v.VerifyPact(cmd.Context(), pact)
		if err != nil {
			return WrapExitError(ExitCommandError,
				fmt.Sprintf("verification of pact %q could not run", pact.Consumer), err)
		}

		if st != nil {
			run, failures, err := store.FromResult(result, pact.Source.Kind)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to convert run for history", err)
			}
			if _, err := st.WriteRun(cmd.Context(), run, failures); err != nil {
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
		}

		verdict := PactVerdict{
			Consumer: pact.Consumer,
			RunID:    result.RunID,
			Success:  result.Success,
			Failures: result.Ledger.SortedKeys(),
		}
		summary.Pacts = append(summary.Pacts, verdict)
		if result.Success {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return outputVerify(opts, cmd, summary)
}

func outputVerify(opts *VerifyOptions, cmd *cobra.Command, summary VerifySummary) error {
	if opts.Format == "json" {
		status := "ok"
		var cliErr *CLIError
		if summary.Failed > 0 {
			status = "error"
			cliErr = &CLIError{
				Code:    "E_VERIFY_FAILED",
				Message: fmt.Sprintf("%d pact(s) failed verification", summary.Failed),
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: status, Data: summary, Error: cliErr}); err != nil {
			return err
		}
		if summary.Failed > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d pact(s) failed verification", summary.Failed))
		}
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Verification Summary: %d passed, %d failed, %d total\n",
		summary.Passed, summary.Failed, len(summary.Pacts))

	for _, verdict := range summary.Pacts {
		if verdict.Success {
			fmt.Fprintf(w, "✓ %s\n", verdict.Consumer)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", verdict.Consumer)
		for _, failure := range verdict.Failures {
			fmt.Fprintf(w, "  %s\n", failure)
		}
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d pact(s) failed verification", summary.Failed))
	}
	return nil
}
