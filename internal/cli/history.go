package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pactum/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath   string
	Consumer string
	Limit    int
}

// RunDetail is one run with its recorded failures.
type RunDetail struct {
	Run      store.Run       `json:"run"`
	Failures []store.Failure `json:"failures"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Inspect recorded verification runs",
		Long: `List recorded verification runs, or show one run's failure detail.

Without a run-id, lists recent runs ordered newest first. With a
run-id, shows that run and its recorded failure ledger.

Exit codes:
  0 - Success
  2 - Command error (missing database, unknown run, etc.)

Examples:
  pactum history --db ./history.db
  pactum history --db ./history.db --consumer order-service --limit 10
  pactum history --db ./history.db 0190a5e2-6b3f-7cc0-b827-f1d2c3b4a5d6`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "history database path (required)")
	cmd.Flags().StringVar(&opts.Consumer, "consumer", "", "only list runs for this consumer")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		if ferr := formatter.Error(ErrCodeNotFound, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if runID != "" {
		run, err := st.ReadRun(ctx, runID)
		if err != nil {
			code := ErrCodeGeneric
			if errors.Is(err, store.ErrRunNotFound) {
				code = ErrCodeNotFound
			}
			if ferr := formatter.Error(code, err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}
		failures, err := st.ReadFailures(ctx, runID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read failures", err)
		}
		return outputRunDetail(opts, cmd, RunDetail{Run: run, Failures: failures})
	}

	runs, err := st.ListRuns(ctx, opts.Consumer, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	return outputRunList(opts, cmd, runs)
}

func outputRunDetail(opts *HistoryOptions, cmd *cobra.Command, detail RunDetail) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(detail)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run:      %s\n", detail.Run.ID)
	fmt.Fprintf(w, "Consumer: %s\n", detail.Run.Consumer)
	fmt.Fprintf(w, "Provider: %s", detail.Run.Provider)
	if detail.Run.ProviderVersion != "" {
		fmt.Fprintf(w, " (%s)", detail.Run.ProviderVersion)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source:   %s\n", detail.Run.Source)
	fmt.Fprintf(w, "Created:  %s\n", detail.Run.CreatedAt)
	fmt.Fprintf(w, "Result:   %s (%d interaction(s))\n", verdictWord(detail.Run.Success), detail.Run.Interactions)

	if len(detail.Failures) > 0 {
		fmt.Fprintf(w, "\nFailures:\n")
		for _, f := range detail.Failures {
			fmt.Fprintf(w, "  %s\n", f.Context)
			if f.Error != "" {
				fmt.Fprintf(w, "    error: %s\n", f.Error)
			}
			if f.Diff != "" {
				fmt.Fprintf(w, "    diff:  %s\n", f.Diff)
			}
		}
	}
	return nil
}

func outputRunList(opts *HistoryOptions, cmd *cobra.Command, runs []store.Run) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-7s %s -> %s (%d interaction(s))  %s\n",
			run.ID, verdictWord(run.Success), run.Consumer, run.Provider,
			run.Interactions, run.CreatedAt)
	}
	return nil
}

func verdictWord(success bool) string {
	if success {
		return "passed"
	}
	return "failed"
}
