package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pactum/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // glob pattern on scenario file basenames
}

// ScenarioResult is one scenario's outcome.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Passed bool     `json:"passed"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult is the aggregate outcome across all scenarios.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios against the engine",
		Long: `Run YAML test scenarios through the verification engine.

Each scenario defines an inline pact, a set of canned handlers, and an
expect clause describing the run outcome and failure ledger. Scenarios
run in isolated in-memory history databases.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenarios, etc.)

Examples:
  pactum test ./scenarios
  pactum test ./scenarios --filter 'publish_*'
  pactum test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "glob pattern to select scenario files by basename")

	return cmd
}

func runTest(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		if ferr := formatter.Error(ErrCodeNotFound, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(files) == 0 {
		if ferr := formatter.Error(ErrCodeNoFiles, fmt.Sprintf("no scenario files found in %s", dir), nil); ferr != nil {
			return ferr
		}
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	result := TestResult{Total: len(files)}

	for _, file := range files {
		formatter.VerboseLog("Running scenario: %s", file)

		sr := runScenario(file)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	return outputTest(opts, cmd, result)
}

// runScenario loads and runs a single scenario file. Load and run
// errors count as scenario failures rather than aborting the whole run.
func runScenario(file string) ScenarioResult {
	sr := ScenarioResult{
		Name: strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
		File: file,
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to run scenario: %v", err)}
		return sr
	}

	sr.Passed = result.Passed()
	sr.Errors = result.Errors
	return sr
}

// findScenarioFiles walks dir for .yaml/.yml files, optionally filtered
// by a glob on the basename. Results are sorted by Walk's lexical order.
func findScenarioFiles(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenarios directory not found: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, merr := filepath.Match(filter, strings.TrimSuffix(filepath.Base(path), ext))
			if merr != nil {
				return fmt.Errorf("invalid filter pattern %q: %w", filter, merr)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func outputTest(opts *TestOptions, cmd *cobra.Command, result TestResult) error {
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		if result.Failed > 0 {
			if err := formatter.Error("E_TEST_FAILED",
				fmt.Sprintf("%d scenario(s) failed", result.Failed), result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
		}
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	for _, sr := range result.Scenarios {
		if sr.Passed {
			fmt.Fprintf(w, "✓ %s\n", sr.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
