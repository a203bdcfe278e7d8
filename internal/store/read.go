package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/calibra/internal/asset"
)

// ErrAssetNotFound is returned when a lookup matches no row.
var ErrAssetNotFound = errors.New("asset not found")

// querier is the subset of *sql.DB and *sql.Tx the read and write helpers need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// selectAssets reads the date column as text. Stores created by older tools
// declare it DATE, and the driver would otherwise convert it to time.Time.
const selectAssets = `
	SELECT id, name, serial_number, CAST(last_calibration_date AS TEXT), status
	FROM assets
`

// ListAssets returns every asset ordered by id.
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) ListAssets(ctx context.Context) ([]asset.Asset, error) {
	return listAssets(ctx, s.db)
}

// AssetBySerial returns the asset with the given serial number.
// Returns ErrAssetNotFound if none exists.
func (s *Store) AssetBySerial(ctx context.Context, serial string) (asset.Asset, error) {
	row := s.db.QueryRowContext(ctx, selectAssets+` WHERE serial_number = ?`, serial)
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, fmt.Errorf("%w: serial %q", ErrAssetNotFound, serial)
	}
	if err != nil {
		return asset.Asset{}, err
	}
	return a, nil
}

// CountAssets returns the number of rows in the assets table.
func (s *Store) CountAssets(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return n, nil
}

func listAssets(ctx context.Context, q querier) ([]asset.Asset, error) {
	rows, err := q.QueryContext(ctx, selectAssets+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	assets := []asset.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}

	return assets, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanAsset reads one assets row. Dates are returned as stored; status text
// is mapped onto the closed asset.Status set, and a missing or unknown status
// is recovered per row rather than failing the whole read.
func scanAsset(sc scanner) (asset.Asset, error) {
	var (
		a      asset.Asset
		serial sql.NullString
		date   sql.NullString
		status sql.NullString
	)
	if err := sc.Scan(&a.ID, &a.Name, &serial, &date, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asset.Asset{}, err
		}
		return asset.Asset{}, fmt.Errorf("scan asset: %w", err)
	}

	a.SerialNumber = serial.String
	a.LastCalibration = date.String
	a.Status, a.StatusIssue = asset.RecoverStatus(status.String, status.Valid)
	return a, nil
}
