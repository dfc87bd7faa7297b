package store

import (
	"context"
	"fmt"
)

// WriteRun atomically records a run and its failures in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-recording a run
// token that already exists is a silent no-op, and in that case no
// failure rows are written either (the first record wins).
//
// Returns inserted=false when the run was already recorded.
func (s *Store) WriteRun(ctx context.Context, run Run, failures []Failure) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, consumer, provider, provider_version, success, interactions, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Consumer,
		run.Provider,
		run.ProviderVersion,
		run.Success,
		run.Interactions,
		run.Source,
	)
	if err != nil {
		return false, fmt.Errorf("write run: insert run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Run token already recorded - keep the original record intact.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("write run: commit (existing): %w", err)
		}
		return false, nil
	}

	for _, f := range failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO failures
			(run_id, context, error, diff)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(run_id, context) DO NOTHING
		`,
			run.ID,
			f.Context,
			f.Error,
			f.Diff,
		)
		if err != nil {
			return false, fmt.Errorf("write run: insert failure %q: %w", f.Context, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}

	return true, nil
}
