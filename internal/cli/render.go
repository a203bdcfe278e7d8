package cli

import (
	"fmt"
	"io"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/audit"
	"github.com/roach88/calibra/internal/normalize"
	"github.com/roach88/calibra/internal/recalibrate"
	"github.com/roach88/calibra/internal/store"
)

func renderAudit(w io.Writer, r *audit.Report) {
	fmt.Fprintln(w, "--- ASSET CALIBRATION AUDIT ---")
	fmt.Fprintf(w, "As of %s (threshold %d days, cutoff %s), %d assets inspected.\n",
		r.AsOf, r.ThresholdDays, r.Cutoff, r.Inspected)

	if r.Compliant() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "All assets are within calibration limits.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "WARNING: %d %s immediate re-calibration:\n", len(r.Overdue), pluralAssets(len(r.Overdue)))
	fmt.Fprintln(w)
	for _, f := range r.Overdue {
		fmt.Fprintf(w, "FAILED: %s (%s) - Last Calibrated: %s\n",
			f.Asset.Name, f.Asset.SerialNumber, describeCalibration(f))
	}
}

func describeCalibration(f audit.Finding) string {
	switch f.Reason {
	case audit.ReasonNeverCalibrated:
		return "never"
	case audit.ReasonUnparseable:
		return fmt.Sprintf("'%s' (unparseable)", f.Asset.LastCalibration)
	}
	return f.Asset.LastCalibration
}

func pluralAssets(n int) string {
	if n == 1 {
		return "asset requires"
	}
	return "assets require"
}

func renderNormalize(w io.Writer, r *normalize.Report) {
	fmt.Fprintf(w, "Found %d asset rows to inspect.\n", r.Inspected)

	verb := "Updated"
	if r.DryRun {
		verb = "Would update"
	}
	for _, c := range r.Changes {
		fmt.Fprintf(w, "%s id=%d (%s) from '%s' -> '%s'\n", verb, c.ID, c.Name, c.Old, c.New)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(w, "Could not parse date for id=%d, serial=%s, value='%s'\n", f.ID, f.SerialNumber, f.Old)
	}

	if r.DryRun {
		fmt.Fprintf(w, "Dry run complete. Rows that would be updated: %d\n", r.Updated)
		return
	}
	fmt.Fprintf(w, "Normalization complete. Rows updated: %d\n", r.Updated)
}

func renderRecalibrate(w io.Writer, r *recalibrate.Report) {
	if len(r.Changes) == 0 {
		fmt.Fprintln(w, "No expired assets found.")
		return
	}

	verb := "Updating"
	if r.DryRun {
		verb = "Would update"
	}
	for _, c := range r.Changes {
		old := c.OldDate
		if old == "" {
			old = "(none)"
		}
		fmt.Fprintf(w, "%s id=%d: %s (%s) last_calibration_date %s -> %s, status %s -> %s\n",
			verb, c.ID, c.Name, c.SerialNumber, old, c.NewDate, c.OldStatus, c.NewStatus)
	}

	if r.DryRun {
		fmt.Fprintf(w, "Dry run complete. Rows that would be updated: %d\n", r.Updated)
		return
	}
	fmt.Fprintf(w, "Recalibration complete. Rows updated: %d\n", r.Updated)
}

func renderInspect(w io.Writer, assets []asset.Asset) {
	fmt.Fprintf(w, "%-4s  %-28s  %-12s  %-12s  %s\n", "ID", "NAME", "SERIAL", "CALIBRATED", "STATUS")
	for _, a := range assets {
		date := a.LastCalibration
		if date == "" {
			date = "-"
		}
		status := string(a.Status)
		if a.StatusIssue != "" {
			status += " (" + a.StatusIssue + ")"
		}
		fmt.Fprintf(w, "%-4d  %-28s  %-12s  %-12s  %s\n", a.ID, a.Name, a.SerialNumber, date, status)
	}
	fmt.Fprintf(w, "%d assets\n", len(assets))
}

func renderHistory(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		threshold := "-"
		if r.ThresholdDays != nil {
			threshold = fmt.Sprintf("%dd", *r.ThresholdDays)
		}
		fmt.Fprintf(w, "#%d %s %-11s as-of %s threshold %s inspected %d updated %d failed %d\n",
			r.Seq, r.ID, r.Kind, r.AsOf, threshold, r.Inspected, r.Updated, r.Failed)
	}
}
