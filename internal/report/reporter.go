// Package report defines the reporter interface for verification events
// and the fan-out that broadcasts them to every registered reporter.
package report

import (
	"github.com/roach88/pactum/internal/compare"
	"github.com/roach88/pactum/internal/contract"
)

// Reporter receives one event per observable verification outcome.
//
// Events arrive synchronously, in the order the verifier produces them,
// before the verification state machine continues. FinalizeReport is
// invoked exactly once per run, after all interactions are processed,
// regardless of individual outcomes.
//
// Implementations must not assume other reporters behaved: the fan-out
// isolates each reporter, so a neighbor's panic never suppresses
// delivery (see Broadcast).
type Reporter interface {
	// GeneratesMessage marks the start of a message interaction's
	// output evaluation.
	GeneratesMessage(interaction contract.Interaction)

	// BodyMatch signals the payload comparison produced an empty diff.
	BodyMatch()

	// BodyMismatch carries the non-empty payload diff.
	BodyMismatch(diff compare.Diff)

	// MetadataMatch signals one expected metadata key matched.
	MetadataMatch(key string)

	// MetadataMismatch carries the diff for one expected metadata key.
	MetadataMismatch(key string, expected any, diff compare.Diff)

	// NoHandlerFound signals that zero handlers resolved for the
	// interaction's description. This is a hard failure, distinct from
	// a comparison mismatch.
	NoHandlerFound(interaction contract.Interaction)

	// VerificationError signals an error raised while invoking a
	// handler or comparing its output. Detail beyond the message is
	// included only when showStacktrace is set.
	VerificationError(interaction contract.Interaction, err error, showStacktrace bool)

	// FinalizeReport closes out the report at end of run.
	FinalizeReport()
}
