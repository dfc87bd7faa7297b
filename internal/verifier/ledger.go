package verifier

import (
	"fmt"
	"sort"

	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// FailureDetail is one ledger entry's value: either a structured diff
// (comparison mismatch) or a captured error (resolution or invocation
// failure). Exactly one field is populated.
type FailureDetail struct {
	Diff  compare.Diff `json:"diff,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Ledger is the run-scoped mapping from a human-readable failure key to
// its detail. Keys have the form "<interaction context> <assertion
// phrase>"; callers are responsible for distinguishing unrelated
// assertions via the context string. Built fresh per run; never
// persisted by this package.
type Ledger map[string]FailureDetail

// Empty reports whether the run recorded no failures.
func (l Ledger) Empty() bool {
	return len(l) == 0
}

// Merge copies every entry from other into l. Used by the orchestrator
// to fold per-interaction results into the run ledger; per-interaction
// key spaces do not collide because every key embeds the interaction
// context.
func (l Ledger) Merge(other Ledger) {
	for k, v := range other {
		l[k] = v
	}
}

// SortedKeys returns the failure keys in lexical order for deterministic
// reporting and persistence.
func (l Ledger) SortedKeys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InteractionResult is the outcome value each interaction verification
// step returns. The orchestrator merges these into the run ledger
// instead of threading a shared mutable map through nested calls.
type InteractionResult struct {
	InteractionID string `json:"interaction_id"`
	Description   string `json:"description"`
	Seq           int64  `json:"seq"`
	Passed        bool   `json:"passed"`
	Failures      Ledger `json:"failures,omitempty"`
}

// fail records one failure on the result and flips it to failed.
func (r *InteractionResult) fail(key string, detail FailureDetail) {
	if r.Failures == nil {
		r.Failures = Ledger{}
	}
	r.Failures[key] = detail
	r.Passed = false
}

// interactionContext is the ledger key prefix for an interaction: the
// description plus the phrase describing what the provider does.
func interactionContext(interaction contract.Interaction) string {
	switch interaction.Kind {
	case contract.KindMessage:
		return fmt.Sprintf("%s generates a message which", interaction.Description)
	default:
		return fmt.Sprintf("%s returns a response which", interaction.Description)
	}
}

// bodyKey is the ledger key for a payload comparison failure.
func bodyKey(interaction contract.Interaction) string {
	return interactionContext(interaction) + " has a matching body"
}

// metadataKey is the ledger key for one expected metadata key.
func metadataKey(interaction contract.Interaction, key string) string {
	return fmt.Sprintf("%s includes metadata %q", interactionContext(interaction), key)
}

// headerKey is the ledger key for one expected response header.
func headerKey(interaction contract.Interaction, key string) string {
	return fmt.Sprintf("%s includes header %q", interactionContext(interaction), key)
}
