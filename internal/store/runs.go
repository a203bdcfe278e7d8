package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/calibra/internal/caldate"
)

// RunKind names the workflow that produced a journal entry.
type RunKind string

const (
	RunNormalize   RunKind = "normalize"
	RunRecalibrate RunKind = "recalibrate"
)

// Run is one entry of the calibration_runs journal.
// Seq is assigned by the store and orders runs; wall time is not recorded.
type Run struct {
	Seq           int64        `json:"seq"`
	ID            string       `json:"id"`
	Kind          RunKind      `json:"kind"`
	AsOf          caldate.Date `json:"as_of"`
	ThresholdDays *int         `json:"threshold_days,omitempty"`
	Inspected     int          `json:"inspected"`
	Updated       int          `json:"updated"`
	Failed        int          `json:"failed"`
}

// RecordRun appends r to the journal inside the transaction, so the entry
// commits or rolls back together with the rows it describes.
func (t *Tx) RecordRun(ctx context.Context, r Run) error {
	var threshold any
	if r.ThresholdDays != nil {
		threshold = *r.ThresholdDays
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO calibration_runs
		(id, kind, as_of, threshold_days, inspected, updated, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		string(r.Kind),
		r.AsOf.String(),
		threshold,
		r.Inspected,
		r.Updated,
		r.Failed,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns returns up to limit journal entries, newest first.
// A limit of zero or less returns every entry.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT seq, id, kind, as_of, threshold_days, inspected, updated, failed
		FROM calibration_runs
		ORDER BY seq DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r         Run
			kind      string
			asOf      string
			threshold sql.NullInt64
		)
		if err := rows.Scan(&r.Seq, &r.ID, &kind, &asOf, &threshold, &r.Inspected, &r.Updated, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Kind = RunKind(kind)
		r.AsOf, err = caldate.ParseCanonical(asOf)
		if err != nil {
			return nil, fmt.Errorf("scan run %s: %w", r.ID, err)
		}
		if threshold.Valid {
			days := int(threshold.Int64)
			r.ThresholdDays = &days
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
