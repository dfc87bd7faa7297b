// Package store provides SQLite-backed history for verification runs.
//
// Each completed run is recorded together with its failure ledger,
// written atomically in one transaction. Runs are keyed by their run
// token, so re-recording the same run is a silent no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All listing queries order by created_at DESC, id ASC so history output
// is stable across invocations.
package store
