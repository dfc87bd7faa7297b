package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run token has no recorded history.
var ErrRunNotFound = errors.New("run not found")

// ReadRun retrieves a single run by its run token.
// Returns ErrRunNotFound if no such run was recorded.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, consumer, provider, provider_version, success, interactions, source, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID, &run.Consumer, &run.Provider, &run.ProviderVersion,
		&run.Success, &run.Interactions, &run.Source, &run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return run, nil
}

// ListRuns returns recorded runs, newest first. A non-empty consumer
// restricts results to that consumer; limit <= 0 means no limit.
//
// Results are ordered by created_at DESC, id ASC so output is stable
// when several runs share a timestamp.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, consumer string, limit int) ([]Run, error) {
	query := `
		SELECT id, consumer, provider, provider_version, success, interactions, source, created_at
		FROM runs
	`
	var args []any
	if consumer != "" {
		query += " WHERE consumer = ?"
		args = append(args, consumer)
	}
	query += " ORDER BY created_at DESC, id ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Consumer, &run.Provider, &run.ProviderVersion,
			&run.Success, &run.Interactions, &run.Source, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}

	return runs, nil
}

// ReadFailures returns the failure ledger recorded for a run, ordered
// by context so output matches the ledger's own sorted-key order.
//
// Returns an empty slice (not nil) when the run passed.
func (s *Store) ReadFailures(ctx context.Context, runID string) ([]Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, context, error, diff
		FROM failures
		WHERE run_id = ?
		ORDER BY context COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.RunID, &f.Context, &f.Error, &f.Diff); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}

	if failures == nil {
		failures = []Failure{}
	}

	return failures, nil
}
