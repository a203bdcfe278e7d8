package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestAsset inserts an Active asset, failing the test on error.
func insertTestAsset(t *testing.T, s *Store, name, serial, date string) int64 {
	t.Helper()
	n := asset.New{Name: name, SerialNumber: serial, Status: asset.StatusActive}
	if date != "" {
		n.LastCalibrated = caldate.MustParse(date)
	}
	id, _, err := s.InsertAsset(context.Background(), n)
	if err != nil {
		t.Fatalf("InsertAsset(%s) failed: %v", serial, err)
	}
	return id
}
