package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Dump every asset row",
		Long: `Print every asset row as stored, ordered by id. Read-only.

Example:
  calibra inspect --db ./assets.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, cmd)
		},
	}
}

func runInspect(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openExisting(opts, f)
	if err != nil || st == nil {
		return err
	}
	defer closeStore(opts, st)

	assets, err := st.ListAssets(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list assets", err)
	}

	return f.Render(assets, func(w io.Writer) { renderInspect(w, assets) })
}
