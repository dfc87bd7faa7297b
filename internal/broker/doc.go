// Package broker talks to a remote contract registry.
//
// It holds the single outward-facing boundary of a verification run: the
// end-of-run verdict publication. Publication is best-effort and gated -
// a verdict is only sent for pacts that were fetched from a registry, and
// only when the operator explicitly enabled publishing. A failed publish
// is logged and swallowed; it never alters the verification outcome.
package broker
