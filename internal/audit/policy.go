package audit

import (
	"fmt"

	"github.com/roach88/calibra/internal/caldate"
)

// DefaultThresholdDays is the maximum calibration age before an asset is
// flagged.
const DefaultThresholdDays = 180

// Policy configures the overdue rule.
type Policy struct {
	ThresholdDays int `json:"threshold_days"`
}

// DefaultPolicy returns the 180-day policy.
func DefaultPolicy() Policy {
	return Policy{ThresholdDays: DefaultThresholdDays}
}

// Validate rejects negative thresholds.
func (p Policy) Validate() error {
	if p.ThresholdDays < 0 {
		return fmt.Errorf("threshold must be zero or more days, got %d", p.ThresholdDays)
	}
	return nil
}

// Cutoff returns today minus the threshold. Dates strictly before the cutoff
// are overdue.
func (p Policy) Cutoff(today caldate.Date) caldate.Date {
	return today.AddDays(-p.ThresholdDays)
}
