package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/clock"
)

// AssetLister reads every asset ordered by id.
// Satisfied by *store.Store and *store.Tx.
type AssetLister interface {
	ListAssets(ctx context.Context) ([]asset.Asset, error)
}

// Report is the result of one audit pass.
type Report struct {
	AsOf          caldate.Date `json:"as_of"`
	Cutoff        caldate.Date `json:"cutoff"`
	ThresholdDays int          `json:"threshold_days"`
	Inspected     int          `json:"inspected"`
	Overdue       []Finding    `json:"overdue"`
}

// Compliant reports whether no asset is overdue.
func (r *Report) Compliant() bool {
	return len(r.Overdue) == 0
}

// Engine computes compliance reports.
type Engine struct {
	assets AssetLister
	clock  clock.Clock
	policy Policy
	logger *slog.Logger
}

// NewEngine creates an audit engine. A nil logger uses slog.Default.
func NewEngine(assets AssetLister, clk clock.Clock, policy Policy, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{assets: assets, clock: clk, policy: policy, logger: logger}
}

// Run audits every asset against the policy as of the clock's today.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	if err := e.policy.Validate(); err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	assets, err := e.assets.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	today := e.clock.Today()
	cutoff := e.policy.Cutoff(today)
	report := &Report{
		AsOf:          today,
		Cutoff:        cutoff,
		ThresholdDays: e.policy.ThresholdDays,
		Inspected:     len(assets),
		Overdue:       Select(assets, cutoff),
	}

	for _, a := range assets {
		if a.StatusIssue != "" {
			e.logger.Warn("asset status recovered as Maintenance", "id", a.ID, "serial", a.SerialNumber, "issue", a.StatusIssue)
		}
	}
	for _, f := range report.Overdue {
		e.logger.Debug("asset overdue",
			"id", f.Asset.ID,
			"serial", f.Asset.SerialNumber,
			"reason", f.Reason,
			"last_calibration", f.Asset.LastCalibration,
		)
	}
	e.logger.Info("audit complete",
		"as_of", today.String(),
		"cutoff", cutoff.String(),
		"inspected", report.Inspected,
		"overdue", len(report.Overdue),
	)

	return report, nil
}
