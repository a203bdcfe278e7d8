// Package asset defines the calibrated asset entity and its status enum.
package asset

import (
	"fmt"
	"strings"

	"github.com/roach88/calibra/internal/caldate"
)

// Status is the closed set of lifecycle states an asset can be in.
type Status string

const (
	StatusActive      Status = "Active"
	StatusMaintenance Status = "Maintenance"
	StatusRetired     Status = "Retired"
)

// Statuses lists every valid Status.
var Statuses = []Status{StatusActive, StatusMaintenance, StatusRetired}

// retiredAliases are legacy spellings that mean the asset is out of service.
var retiredAliases = map[string]bool{
	"retired":        true,
	"decommissioned": true,
	"inactive":       true,
}

// ParseStatus maps stored or user-supplied text onto a Status.
// Matching is case-insensitive. Unknown values are an error.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch {
	case key == "active":
		return StatusActive, nil
	case key == "maintenance":
		return StatusMaintenance, nil
	case retiredAliases[key]:
		return StatusRetired, nil
	}
	return "", fmt.Errorf("unknown asset status %q: want one of %v", s, Statuses)
}

// RecoverStatus maps a stored status onto a Status without failing. NULL or
// unrecognized text becomes StatusMaintenance, and issue describes what was
// stored so callers can report the row. issue is empty for valid values.
func RecoverStatus(stored string, present bool) (st Status, issue string) {
	if !present {
		return StatusMaintenance, "status missing"
	}
	st, err := ParseStatus(stored)
	if err != nil {
		return StatusMaintenance, err.Error()
	}
	return st, ""
}

// Asset is one row of the assets table.
type Asset struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`

	// LastCalibration holds the stored representation of the last calibration
	// date. Empty means the asset has never been calibrated. Rows written by
	// this tool are always canonical; rows from older tools may not be.
	LastCalibration string `json:"last_calibration_date"`

	Status Status `json:"status"`

	// StatusIssue is set when the stored status was missing or unknown and
	// Status was recovered as Maintenance.
	StatusIssue string `json:"status_issue,omitempty"`
}

// CalibratedOn returns the last calibration date. ok is false when the asset
// was never calibrated. err is non-nil when the stored value is not canonical.
func (a Asset) CalibratedOn() (d caldate.Date, ok bool, err error) {
	if strings.TrimSpace(a.LastCalibration) == "" {
		return caldate.Date{}, false, nil
	}
	d, err = caldate.ParseCanonical(a.LastCalibration)
	if err != nil {
		return caldate.Date{}, false, err
	}
	return d, true, nil
}

// New describes an asset to be inserted.
type New struct {
	Name           string
	SerialNumber   string
	LastCalibrated caldate.Date // zero means never calibrated
	Status         Status
}

// Validate checks the required fields of n.
func (n New) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("asset name is required")
	}
	if strings.TrimSpace(n.SerialNumber) == "" {
		return fmt.Errorf("asset %q: serial number is required", n.Name)
	}
	if _, err := ParseStatus(string(n.Status)); err != nil {
		return fmt.Errorf("asset %q: %w", n.Name, err)
	}
	return nil
}
