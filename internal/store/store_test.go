package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, path, s.Path())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"assets", "calibration_runs"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %q not found after idempotent opens", table)
	}

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_PreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	insertTestAsset(t, s1, "Gamma Ray Detector", "SN-GR-001", "2023-10-01")
	s1.Close()

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var count int
	require.NoError(t, s2.db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpen_UnwritableLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "nested", "test.db")

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestOpenExisting_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	_, err := OpenExisting(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStore)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "OpenExisting must not create the file")
}

func TestOpenExisting_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE unrelated (x INTEGER)")
	require.NoError(t, err)
	db.Close()

	_, err = OpenExisting(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingStore)

	db, err = sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE name = 'assets'",
	).Scan(&count))
	assert.Zero(t, count, "OpenExisting must not create the schema")
}

func TestOpenExisting_UpgradesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Schema as written by older tools: no NOT NULL on
	// serial or status, no CHECK, no journal table.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE assets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			serial_number TEXT UNIQUE,
			last_calibration_date DATE,
			status TEXT
		);
		INSERT INTO assets (name, serial_number, last_calibration_date, status) VALUES
			('Density Sensor', 'SN-DS-441', '15/03/2023', 'Decommissioned'),
			('Gamma Ray Detector', 'SN-GR-001', '2024-05-01', NULL),
			('Flow Meter', 'SN-FM-100', 'not-a-date', 'Active'),
			('Old Gauge', 'SN-OG-1', NULL, 'active');
	`)
	require.NoError(t, err)
	db.Close()

	s, err := OpenExisting(path)
	require.NoError(t, err)
	defer s.Close()

	var runsTable int
	require.NoError(t, s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='calibration_runs'",
	).Scan(&runsTable))
	assert.Equal(t, 1, runsTable)

	// DATE-typed columns still come back exactly as stored.
	assets, err := s.ListAssets(t.Context())
	require.NoError(t, err)
	require.Len(t, assets, 4)

	assert.Equal(t, "15/03/2023", assets[0].LastCalibration)
	assert.Equal(t, asset.StatusRetired, assets[0].Status)

	assert.Equal(t, "2024-05-01", assets[1].LastCalibration)
	assert.Equal(t, asset.StatusMaintenance, assets[1].Status)
	assert.Equal(t, "status missing", assets[1].StatusIssue)

	assert.Equal(t, "not-a-date", assets[2].LastCalibration)
	assert.Equal(t, "", assets[3].LastCalibration)
	assert.Equal(t, asset.StatusActive, assets[3].Status)

	// Writes through the typed path land as canonical text.
	require.NoError(t, s.WithTx(t.Context(), func(tx *Tx) error {
		return tx.MarkRecalibrated(t.Context(), assets[2].ID, caldate.MustParse("2024-06-01"))
	}))
	a, err := s.AssetBySerial(t.Context(), "SN-FM-100")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", a.LastCalibration)
}
