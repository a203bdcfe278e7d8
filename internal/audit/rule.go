package audit

import (
	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
)

// Reason explains why an asset is overdue.
type Reason string

const (
	ReasonExpired         Reason = "expired"
	ReasonNeverCalibrated Reason = "never-calibrated"
	ReasonUnparseable     Reason = "unparseable"
)

// Finding is one overdue asset.
type Finding struct {
	Asset  asset.Asset `json:"asset"`
	Reason Reason      `json:"reason"`

	// DaysOverdue counts days past the cutoff. Zero for assets without a
	// usable date.
	DaysOverdue int `json:"days_overdue,omitempty"`
}

// Evaluate applies the overdue rule to a single asset.
func Evaluate(a asset.Asset, cutoff caldate.Date) (Finding, bool) {
	d, ok, err := a.CalibratedOn()
	switch {
	case err != nil:
		return Finding{Asset: a, Reason: ReasonUnparseable}, true
	case !ok:
		return Finding{Asset: a, Reason: ReasonNeverCalibrated}, true
	case d.Before(cutoff):
		return Finding{Asset: a, Reason: ReasonExpired, DaysOverdue: cutoff.DaysSince(d)}, true
	}
	return Finding{}, false
}

// Select returns the overdue assets, preserving input order.
// Callers pass assets ordered by id.
func Select(assets []asset.Asset, cutoff caldate.Date) []Finding {
	findings := []Finding{}
	for _, a := range assets {
		if f, overdue := Evaluate(a, cutoff); overdue {
			findings = append(findings, f)
		}
	}
	return findings
}
