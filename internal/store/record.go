package store

import (
	"fmt"

	"github.com/roach88/pactum/internal/contract"
	"github.com/roach88/pactum/internal/verifier"
)

// Run is one recorded verification run.
type Run struct {
	ID              string `json:"id"`
	Consumer        string `json:"consumer"`
	Provider        string `json:"provider"`
	ProviderVersion string `json:"provider_version"`
	Success         bool   `json:"success"`
	Interactions    int    `json:"interactions"`
	Source          string `json:"source"`
	CreatedAt       string `json:"created_at"`
}

// Failure is one ledger entry of a recorded run.
type Failure struct {
	RunID   string `json:"run_id"`
	Context string `json:"context"`
	Error   string `json:"error,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// FromResult converts a run result into its storable records. The
// failure ledger is walked in sorted key order and each diff is
// serialized to canonical JSON per RFC 8785 so recorded history is
// byte-stable across runs.
func FromResult(result *verifier.RunResult, source contract.SourceKind) (Run, []Failure, error) {
	run := Run{
		ID:              result.RunID,
		Consumer:        result.Consumer,
		Provider:        result.Provider,
		ProviderVersion: result.ProviderVersion,
		Success:         result.Success,
		Interactions:    len(result.Interactions),
		Source:          source.String(),
	}

	var failures []Failure
	for _, key := range result.Ledger.SortedKeys() {
		detail := result.Ledger[key]

		f := Failure{
			RunID:   result.RunID,
			Context: key,
			Error:   detail.Error,
		}
		if len(detail.Diff) > 0 {
			diffJSON, err := contract.MarshalCanonical(detail.Diff)
			if err != nil {
				return Run{}, nil, fmt.Errorf("serialize diff for %q: %w", key, err)
			}
			f.Diff = string(diffJSON)
		}
		failures = append(failures, f)
	}

	return run, failures, nil
}
