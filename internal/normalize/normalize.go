// Package normalize rewrites stored calibration dates into canonical form.
//
// A sweep visits every asset in id order inside one transaction. Each row
// produces a RowResult; per-row parse failures are recorded and the sweep
// carries on. Only store errors abort the sweep, and they roll back every
// rewrite made so far.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/clock"
	"github.com/roach88/calibra/internal/store"
)

// Outcome classifies what a sweep did with one row.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeBlank     Outcome = "blank"
	OutcomeFailed    Outcome = "failed"
)

// RowResult is the per-row result of a sweep.
type RowResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SerialNumber string  `json:"serial_number"`
	Old          string  `json:"old"`
	New          string  `json:"new,omitempty"`
	Format       string  `json:"format,omitempty"`
	Outcome      Outcome `json:"outcome"`
	Error        string  `json:"error,omitempty"`
	Err          error   `json:"-"`

	date caldate.Date
}

// Report summarizes one sweep.
type Report struct {
	RunID     string       `json:"run_id"`
	AsOf      caldate.Date `json:"as_of"`
	DryRun    bool         `json:"dry_run"`
	Inspected int          `json:"inspected"`
	Updated   int          `json:"updated"`
	Unchanged int          `json:"unchanged"`
	Blank     int          `json:"blank"`
	Changes   []RowResult  `json:"changes"`
	Failures  []RowResult  `json:"failures"`
}

// Options configures a Normalizer.
type Options struct {
	// DryRun computes the report without writing anything.
	DryRun bool

	// NewRunID generates journal ids. Defaults to UUIDv7.
	NewRunID func() string

	Logger *slog.Logger
}

// Normalizer sweeps a store and canonicalizes calibration dates.
type Normalizer struct {
	store *store.Store
	clock clock.Clock
	opts  Options
}

// New creates a Normalizer.
func New(st *store.Store, clk clock.Clock, opts Options) *Normalizer {
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Normalizer{store: st, clock: clk, opts: opts}
}

// Classify decides what to do with one stored value.
func Classify(stored string) RowResult {
	d, f, err := caldate.Parse(stored)
	switch {
	case errors.Is(err, caldate.ErrBlank):
		return RowResult{Old: stored, Outcome: OutcomeBlank}
	case err != nil:
		return RowResult{Old: stored, Outcome: OutcomeFailed, Error: err.Error(), Err: err}
	}

	r := RowResult{Old: stored, New: d.String(), Format: f.Name, Outcome: OutcomeUnchanged, date: d}
	if r.New != stored {
		r.Outcome = OutcomeUpdated
	}
	return r
}

// Run performs one sweep.
func (n *Normalizer) Run(ctx context.Context) (*Report, error) {
	logger := n.opts.Logger
	report := &Report{
		RunID:    n.opts.NewRunID(),
		AsOf:     n.clock.Today(),
		DryRun:   n.opts.DryRun,
		Changes:  []RowResult{},
		Failures: []RowResult{},
	}

	err := n.store.WithTx(ctx, func(tx *store.Tx) error {
		assets, err := tx.ListAssets(ctx)
		if err != nil {
			return err
		}
		report.Inspected = len(assets)
		logger.Debug("normalize sweep started", "run_id", report.RunID, "rows", len(assets))

		for _, a := range assets {
			if a.StatusIssue != "" {
				logger.Warn("asset status recovered as Maintenance", "id", a.ID, "serial", a.SerialNumber, "issue", a.StatusIssue)
			}
			r := Classify(a.LastCalibration)
			r.ID, r.Name, r.SerialNumber = a.ID, a.Name, a.SerialNumber

			switch r.Outcome {
			case OutcomeBlank:
				report.Blank++
				continue
			case OutcomeUnchanged:
				report.Unchanged++
				continue
			case OutcomeFailed:
				logger.Warn("unparseable calibration date", "id", a.ID, "serial", a.SerialNumber, "value", a.LastCalibration)
				report.Failures = append(report.Failures, r)
				continue
			}

			if !n.opts.DryRun {
				if err := tx.SetCalibrationDate(ctx, a.ID, r.date); err != nil {
					return err
				}
			}
			logger.Debug("calibration date canonicalized", "id", a.ID, "from", r.Old, "to", r.New, "format", r.Format)
			report.Changes = append(report.Changes, r)
			report.Updated++
		}

		if n.opts.DryRun {
			return nil
		}
		return tx.RecordRun(ctx, store.Run{
			ID:        report.RunID,
			Kind:      store.RunNormalize,
			AsOf:      report.AsOf,
			Inspected: report.Inspected,
			Updated:   report.Updated,
			Failed:    len(report.Failures),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	logger.Info("normalize complete",
		"run_id", report.RunID,
		"inspected", report.Inspected,
		"updated", report.Updated,
		"failed", len(report.Failures),
		"dry_run", report.DryRun,
	)
	return report, nil
}
