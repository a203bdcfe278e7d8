// Package fixture loads asset seed files into a store.
//
// Seed files are YAML:
//
//	assets:
//	  - name: Gamma Ray Detector
//	    serial_number: SN-GR-001
//	    last_calibration_date: 15/03/2023   # any format caldate.Parse accepts
//	    status: Active                      # optional, defaults to Active
//	  - name: Density Sensor
//	    serial_number: SN-DS-441
//	    calibrated_days_ago: 250            # relative to the as-of date
//
// Dates are canonicalized on load, so seeding never writes a non-canonical
// value. Duplicate serials are skipped, not rejected.
package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/store"
)

//go:embed sample.yaml
var sampleYAML []byte

// File is the top-level document of a seed file.
type File struct {
	Assets []Entry `yaml:"assets"`
}

// Entry is one asset in a seed file.
type Entry struct {
	Name              string `yaml:"name"`
	SerialNumber      string `yaml:"serial_number"`
	LastCalibration   string `yaml:"last_calibration_date,omitempty"`
	CalibratedDaysAgo *int   `yaml:"calibrated_days_ago,omitempty"`
	Status            string `yaml:"status,omitempty"`
}

// Decode parses a seed document and resolves every entry against today.
// Unknown keys are rejected so typos surface instead of silently dropping data.
func Decode(r io.Reader, today caldate.Date) ([]asset.New, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []asset.New{}, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	assets := make([]asset.New, 0, len(f.Assets))
	for i, e := range f.Assets {
		n, err := e.resolve(today)
		if err != nil {
			return nil, fmt.Errorf("fixture entry %d: %w", i+1, err)
		}
		assets = append(assets, n)
	}
	return assets, nil
}

// LoadFile reads and decodes the seed file at path.
func LoadFile(path string, today caldate.Date) ([]asset.New, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Decode(bytes.NewReader(data), today)
}

// Sample returns the built-in demo asset set.
func Sample(today caldate.Date) ([]asset.New, error) {
	return Decode(bytes.NewReader(sampleYAML), today)
}

func (e Entry) resolve(today caldate.Date) (asset.New, error) {
	n := asset.New{
		Name:         clean(e.Name),
		SerialNumber: clean(e.SerialNumber),
		Status:       asset.StatusActive,
	}

	if e.Status != "" {
		st, err := asset.ParseStatus(e.Status)
		if err != nil {
			return asset.New{}, err
		}
		n.Status = st
	}

	switch {
	case e.LastCalibration != "" && e.CalibratedDaysAgo != nil:
		return asset.New{}, fmt.Errorf("%s: set last_calibration_date or calibrated_days_ago, not both", n.SerialNumber)
	case e.LastCalibration != "":
		d, _, err := caldate.Parse(e.LastCalibration)
		if err != nil {
			return asset.New{}, fmt.Errorf("%s: %w", n.SerialNumber, err)
		}
		n.LastCalibrated = d
	case e.CalibratedDaysAgo != nil:
		if *e.CalibratedDaysAgo < 0 {
			return asset.New{}, fmt.Errorf("%s: calibrated_days_ago must not be negative", n.SerialNumber)
		}
		n.LastCalibrated = today.AddDays(-*e.CalibratedDaysAgo)
	}

	if err := n.Validate(); err != nil {
		return asset.New{}, err
	}
	return n, nil
}

// clean trims and NFC-normalizes free text so visually identical serials
// from different sources collide on the unique constraint.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SeedReport lists what a Seed call did.
type SeedReport struct {
	Inserted []string `json:"inserted"`
	Skipped  []string `json:"skipped"`
}

// Inserter is satisfied by *store.Store.
type Inserter interface {
	InsertAsset(ctx context.Context, n asset.New) (int64, bool, error)
}

var _ Inserter = (*store.Store)(nil)

// Seed inserts assets in order. Serials already present are recorded as
// skipped; any other error stops the seed.
func Seed(ctx context.Context, st Inserter, assets []asset.New) (*SeedReport, error) {
	report := &SeedReport{Inserted: []string{}, Skipped: []string{}}
	for _, n := range assets {
		_, inserted, err := st.InsertAsset(ctx, n)
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", n.SerialNumber, err)
		}
		if inserted {
			report.Inserted = append(report.Inserted, n.SerialNumber)
		} else {
			report.Skipped = append(report.Skipped, n.SerialNumber)
		}
	}
	return report, nil
}
