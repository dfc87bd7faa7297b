package harness

import (
	"fmt"

	"github.com/roach88/pactum/internal/verifier"
)

// EvaluateExpectations checks a run result against the scenario's
// expect clause and returns one message per violation. An empty slice
// means every expectation held.
func EvaluateExpectations(result *verifier.RunResult, expect ExpectClause) []string {
	var violations []string

	if expect.Success != nil && result.Success != *expect.Success {
		violations = append(violations, fmt.Sprintf(
			"expected success=%v, got success=%v (ledger: %v)",
			*expect.Success, result.Success, result.Ledger.SortedKeys(),
		))
	}

	for _, key := range expect.Failures {
		if _, ok := result.Ledger[key]; !ok {
			violations = append(violations, fmt.Sprintf(
				"expected ledger entry %q, ledger has %v",
				key, result.Ledger.SortedKeys(),
			))
		}
	}

	if expect.Exact && len(result.Ledger) != len(expect.Failures) {
		violations = append(violations, fmt.Sprintf(
			"expected exactly %d ledger entries, got %d: %v",
			len(expect.Failures), len(result.Ledger), result.Ledger.SortedKeys(),
		))
	}

	return violations
}
