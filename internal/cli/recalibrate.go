package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/recalibrate"
)

// RecalibrateOptions holds flags for the recalibrate command.
type RecalibrateOptions struct {
	*RootOptions
	DryRun bool
}

// NewRecalibrateCommand creates the recalibrate command.
func NewRecalibrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecalibrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recalibrate",
		Short: "Recalibrate every overdue asset",
		Long: `Mark every asset the audit would flag as calibrated today and set
its status to Active.

All updates happen in one transaction: either every overdue asset is
recalibrated or none is. Running it twice in a row changes nothing the
second time.

Examples:
  calibra recalibrate --db ./assets.db
  calibra recalibrate --dry-run --threshold-days 90`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecalibrate(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "list assets that would be recalibrated without writing")

	return cmd
}

func runRecalibrate(opts *RecalibrateOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openExisting(opts.RootOptions, f)
	if err != nil || st == nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	w := recalibrate.New(st, opts.clock, opts.policy(), recalibrate.Options{
		DryRun: opts.DryRun,
		Logger: opts.logger,
	})
	report, err := w.Run(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "recalibrate failed", err)
	}

	return f.Render(report, func(w io.Writer) { renderRecalibrate(w, report) })
}
