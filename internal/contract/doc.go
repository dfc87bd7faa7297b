// Package contract defines the data model for provider contract
// verification: pacts, interactions, provider states, source provenance,
// and the aggregate verdict.
//
// Values in this package are immutable once loaded. The verifier never
// mutates a Pact's interaction list; everything it derives (normalized
// output, diffs, ledger entries) lives in its own packages.
package contract
