package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/audit"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "List assets overdue for recalibration",
		Long: `List every asset whose last calibration is older than the threshold,
or that has never been calibrated. Read-only.

Exits with status 1 when overdue assets exist so schedulers can chain
a recalibration or raise an alert.

Examples:
  calibra audit --db ./assets.db
  calibra audit --threshold-days 90 --as-of 2024-06-01 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, cmd)
		},
	}
}

func runAudit(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openExisting(opts, f)
	if err != nil || st == nil {
		return err
	}
	defer closeStore(opts, st)

	report, err := audit.NewEngine(st, opts.clock, opts.policy(), opts.logger).Run(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "audit failed", err)
	}

	if err := f.Render(report, func(w io.Writer) { renderAudit(w, report) }); err != nil {
		return err
	}

	if !report.Compliant() {
		return NewExitError(ExitFailure, "")
	}
	return nil
}
