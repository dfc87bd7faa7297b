// Package verifier is the verification orchestration engine.
//
// Given a pact, it resolves the provider-side handlers registered for
// each interaction, invokes them, normalizes their heterogeneous return
// values into a canonical (payload, metadata) pair, delegates structural
// comparison to the compare collaborator, aggregates per-interaction
// outcomes into a failure ledger, fans events out to reporters, and
// hands the aggregate verdict to the result publisher.
//
// Execution is single-threaded and synchronous: interactions are
// processed strictly one at a time in contract order. Failures are
// isolated per interaction - a handler error, a comparison mismatch, or
// even a panic fails that interaction only and never aborts the run.
package verifier
