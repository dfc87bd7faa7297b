package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_PassingMessage(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/passing_message.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "violations: %v", result.Errors)
}

func TestRunWithGolden_MismatchIsolated(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/mismatch_isolated.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "violations: %v", result.Errors)
}
