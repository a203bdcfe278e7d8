// Package recalibrate brings overdue assets back into compliance.
//
// The overdue set is chosen by audit.Select with the caller's audit.Policy.
// All updates and the journal entry for a run share one transaction, so a
// failure leaves the store exactly as it was.
package recalibrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/audit"
	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/clock"
	"github.com/roach88/calibra/internal/store"
)

// Change describes one recalibrated asset.
type Change struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	SerialNumber string       `json:"serial_number"`
	Reason       audit.Reason `json:"reason"`
	OldDate      string       `json:"old_date"`
	NewDate      caldate.Date `json:"new_date"`
	OldStatus    asset.Status `json:"old_status"`
	NewStatus    asset.Status `json:"new_status"`
}

// Report summarizes one recalibration run.
type Report struct {
	RunID         string       `json:"run_id"`
	AsOf          caldate.Date `json:"as_of"`
	Cutoff        caldate.Date `json:"cutoff"`
	ThresholdDays int          `json:"threshold_days"`
	DryRun        bool         `json:"dry_run"`
	Inspected     int          `json:"inspected"`
	Updated       int          `json:"updated"`
	Changes       []Change     `json:"changes"`
}

// Options configures a Workflow.
type Options struct {
	// DryRun lists what would change without writing.
	DryRun bool

	// NewRunID generates journal ids. Defaults to UUIDv7.
	NewRunID func() string

	Logger *slog.Logger
}

// Workflow recalibrates overdue assets.
type Workflow struct {
	store  *store.Store
	clock  clock.Clock
	policy audit.Policy
	opts   Options
}

// New creates a Workflow.
func New(st *store.Store, clk clock.Clock, policy audit.Policy, opts Options) *Workflow {
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Workflow{store: st, clock: clk, policy: policy, opts: opts}
}

// Run recalibrates every asset the audit would flag: its calibration date
// becomes today and its status becomes Active.
func (w *Workflow) Run(ctx context.Context) (*Report, error) {
	if err := w.policy.Validate(); err != nil {
		return nil, fmt.Errorf("recalibrate: %w", err)
	}

	logger := w.opts.Logger
	today := w.clock.Today()
	report := &Report{
		RunID:         w.opts.NewRunID(),
		AsOf:          today,
		Cutoff:        w.policy.Cutoff(today),
		ThresholdDays: w.policy.ThresholdDays,
		DryRun:        w.opts.DryRun,
		Changes:       []Change{},
	}

	err := w.store.WithTx(ctx, func(tx *store.Tx) error {
		assets, err := tx.ListAssets(ctx)
		if err != nil {
			return err
		}
		report.Inspected = len(assets)

		for _, f := range audit.Select(assets, report.Cutoff) {
			a := f.Asset
			if !w.opts.DryRun {
				if err := tx.MarkRecalibrated(ctx, a.ID, today); err != nil {
					return err
				}
			}
			logger.Debug("asset recalibrated", "id", a.ID, "serial", a.SerialNumber, "reason", f.Reason)
			report.Changes = append(report.Changes, Change{
				ID:           a.ID,
				Name:         a.Name,
				SerialNumber: a.SerialNumber,
				Reason:       f.Reason,
				OldDate:      a.LastCalibration,
				NewDate:      today,
				OldStatus:    a.Status,
				NewStatus:    asset.StatusActive,
			})
		}
		report.Updated = len(report.Changes)

		if w.opts.DryRun {
			return nil
		}
		threshold := w.policy.ThresholdDays
		return tx.RecordRun(ctx, store.Run{
			ID:            report.RunID,
			Kind:          store.RunRecalibrate,
			AsOf:          today,
			ThresholdDays: &threshold,
			Inspected:     report.Inspected,
			Updated:       report.Updated,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("recalibrate: %w", err)
	}

	logger.Info("recalibration complete",
		"run_id", report.RunID,
		"as_of", today.String(),
		"updated", report.Updated,
		"dry_run", report.DryRun,
	)
	return report, nil
}
