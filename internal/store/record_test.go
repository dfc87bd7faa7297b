package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/verifier"
)

func TestFromResult_MapsRunAndLedger(t *testing.T) {
	result := &verifier.RunResult{
		RunID:           "run-1",
		Consumer:        "web-app",
		Provider:        "order-service",
		ProviderVersion: "1.4.2",
		Success:         false,
		Interactions:    []verifier.InteractionResult{{Description: "a"}, {Description: "b"}},
		Ledger: verifier.Ledger{
			"b failed": {Error: "boom"},
			"a failed": {Diff: compare.Diff{
				"total": {Expected: "1", Actual: "2", Message: "values differ"},
			}},
		},
	}

	run, failures, err := FromResult(result, contract.SourceLocal)
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "local", run.Source)
	assert.Equal(t, 2, run.Interactions)
	assert.False(t, run.Success)

	require.Len(t, failures, 2)
	assert.Equal(t, "a failed", failures[0].Context, "ledger keys sorted")
	assert.Contains(t, failures[0].Diff, `"total"`)
	assert.Equal(t, "boom", failures[1].Error)
	assert.Empty(t, failures[1].Diff)
}

func TestFromResult_PassingRunHasNoFailures(t *testing.T) {
	result := &verifier.RunResult{
		RunID:    "run-1",
		Consumer: "web-app",
		Provider: "order-service",
		Success:  true,
		Ledger:   verifier.Ledger{},
	}

	run, failures, err := FromResult(result, contract.SourceBroker)
	require.NoError(t, err)

	assert.True(t, run.Success)
	assert.Equal(t, "broker", run.Source)
	assert.Empty(t, failures)
}
