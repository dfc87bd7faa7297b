package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateResult holds the validation summary for JSON output.
type ValidateResult struct {
	Provider     string `json:"provider"`
	Pacts        int    `json:"pacts"`
	Interactions int    `json:"interactions"`
	Files        int    `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan-dir>",
		Short: "Validate a verification plan",
		Long: `Validate a CUE verification plan without running it.

Checks that the plan compiles, names a provider, and carries at least
one pact with at least one interaction.

Exit codes:
  0 - Plan is valid
  2 - Plan is invalid or could not be loaded

Examples:
  pactum validate ./plan
  pactum validate ./plan --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, err := LoadPlan(dir)
	if err != nil {
		code := ErrCodeGeneric
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		if ferr := formatter.Error(code, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "plan validation failed", err)
	}

	interactions := 0
	for _, pact := range result.Plan.Pacts {
		interactions += len(pact.Interactions)
	}

	summary := ValidateResult{
		Provider:     result.Plan.Provider,
		Pacts:        len(result.Plan.Pacts),
		Interactions: interactions,
		Files:        result.FileCount,
	}

	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Plan is valid.\n")
	fmt.Fprintf(w, "  Provider:     %s\n", summary.Provider)
	fmt.Fprintf(w, "  Pacts:        %d\n", summary.Pacts)
	fmt.Fprintf(w, "  Interactions: %d\n", summary.Interactions)
	fmt.Fprintf(w, "  CUE files:    %d\n", summary.Files)
	return nil
}
