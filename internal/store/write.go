package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
)

// InsertAsset inserts an asset and returns its id.
// Uses ON CONFLICT(serial_number) DO NOTHING for idempotency - a duplicate
// serial is silently ignored and the existing row's id is returned with
// inserted=false. Other constraint violations still return errors.
func (s *Store) InsertAsset(ctx context.Context, n asset.New) (id int64, inserted bool, err error) {
	if err := n.Validate(); err != nil {
		return 0, false, fmt.Errorf("insert asset: %w", err)
	}
	status, _ := asset.ParseStatus(string(n.Status))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("insert asset: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO assets (name, serial_number, last_calibration_date, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(serial_number) DO NOTHING
	`,
		n.Name,
		n.SerialNumber,
		nullableDate(n.LastCalibrated),
		string(status),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("insert asset: rows affected: %w", err)
	}

	if rowsAffected > 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, false, fmt.Errorf("insert asset: last insert id: %w", err)
		}
		inserted = true
	} else {
		// Conflict - serial already present, fetch the existing ID
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM assets WHERE serial_number = ?`, n.SerialNumber,
		).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("insert asset: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("insert asset: commit: %w", err)
	}

	return id, inserted, nil
}

// Tx is a write transaction over the store. Obtain one through WithTx.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so a failure partway through leaves
// no row changed.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListAssets returns every asset ordered by id, as seen by the transaction.
func (t *Tx) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	return listAssets(ctx, t.tx)
}

// SetCalibrationDate rewrites the stored calibration date of one asset.
// Status is left unchanged.
func (t *Tx) SetCalibrationDate(ctx context.Context, id int64, d caldate.Date) error {
	if d.IsZero() {
		return fmt.Errorf("set calibration date id=%d: zero date", id)
	}
	return t.updateOne(ctx, "set calibration date", id, `
		UPDATE assets SET last_calibration_date = ? WHERE id = ?
	`, d.String(), id)
}

// MarkRecalibrated records a calibration on d and returns the asset to
// service.
func (t *Tx) MarkRecalibrated(ctx context.Context, id int64, d caldate.Date) error {
	if d.IsZero() {
		return fmt.Errorf("mark recalibrated id=%d: zero date", id)
	}
	return t.updateOne(ctx, "mark recalibrated", id, `
		UPDATE assets SET last_calibration_date = ?, status = ? WHERE id = ?
	`, d.String(), string(asset.StatusActive), id)
}

// updateOne executes an UPDATE that must touch exactly one row.
func (t *Tx) updateOne(ctx context.Context, op string, id int64, query string, args ...any) error {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s id=%d: %w", op, id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s id=%d: rows affected: %w", op, id, err)
	}
	if n != 1 {
		return fmt.Errorf("%s id=%d: %w", op, id, ErrAssetNotFound)
	}
	return nil
}

// nullableDate maps the zero Date to SQL NULL.
func nullableDate(d caldate.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
