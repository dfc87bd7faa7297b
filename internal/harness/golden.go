package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/report"
)

// TraceSnapshot captures the complete reporter trace for a scenario
// execution. All fields use canonical JSON serialization for
// deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	RunID        string         `json:"run_id"`
	Success      bool           `json:"success"`
	Failures     []string       `json:"failures,omitempty"`
	Trace        []report.Event `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any so empty
// event fields are omitted from the canonical JSON.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"type": event.Type,
		}
		if event.Description != "" {
			eventMap["description"] = event.Description
		}
		if event.Key != "" {
			eventMap["key"] = event.Key
		}
		if event.Expected != nil {
			eventMap["expected"] = event.Expected
		}
		if len(event.Paths) > 0 {
			eventMap["paths"] = event.Paths
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"success":       s.Success,
		"trace":         traceList,
	}
	if len(s.Failures) > 0 {
		failures := make([]any, len(s.Failures))
		for i, f := range s.Failures {
			failures[i] = f
		}
		result["failures"] = failures
	}
	return result
}

// RunWithGolden executes a scenario and compares its trace against a
// golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails. Test failure (via
// goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}

	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// Useful when a scenario has already been run and only the comparison
// is needed.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunID:        result.Run.RunID,
		Success:      result.Run.Success,
		Failures:     result.Run.Ledger.SortedKeys(),
		Trace:        result.Events,
	}

	traceJSON, err := contract.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
