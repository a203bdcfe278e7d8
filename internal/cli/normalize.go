package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/normalize"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	DryRun bool
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite calibration dates in canonical YYYY-MM-DD form",
		Long: `Sweep every asset and rewrite its calibration date in canonical
YYYY-MM-DD form.

Recognized formats, first match wins:
  YYYY-MM-DD, YYYY-MM-DD HH:MM:SS, YYYY-MM-DDT..., DD/MM/YYYY,
  MM/DD/YYYY, DD-MM-YYYY, YYYY/MM/DD

Slash dates are read day-first; month-first is only used when day-first
is not a valid date. Blank dates are left alone. Dates matching no format
are reported and left unchanged. Re-running is safe.

Example:
  calibra normalize --db ./assets.db --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report changes without writing")

	return cmd
}

func runNormalize(opts *NormalizeOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openExisting(opts.RootOptions, f)
	if err != nil || st == nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	n := normalize.New(st, opts.clock, normalize.Options{
		DryRun: opts.DryRun,
		Logger: opts.logger,
	})
	report, err := n.Run(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "normalize failed", err)
	}

	return f.Render(report, func(w io.Writer) { renderNormalize(w, report) })
}
